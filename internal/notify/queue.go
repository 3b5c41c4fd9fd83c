package notify

import "sync"

// Queue is an unbounded in-memory FIFO of email jobs, safe for any number of
// concurrent producers and consumers. Lifetime is the process lifetime;
// nothing is persisted.
type Queue struct {
	mu   sync.Mutex
	jobs []EmailJob
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Enqueue(job EmailJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
}

func (q *Queue) TryDequeue() (EmailJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return EmailJob{}, false
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, true
}

// AnyQueued is a racy scheduling hint: by the time the caller acts on it the
// queue may already be empty or non-empty again.
func (q *Queue) AnyQueued() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs) > 0
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

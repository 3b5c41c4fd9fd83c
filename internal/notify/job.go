package notify

import "github.com/google/uuid"

// EmailJob is one unit of outbound notification work. Immutable once
// enqueued; the JobID identifies it across process boundaries.
type EmailJob struct {
	JobID        string `json:"job_id"`
	EmailAddress string `json:"email_address"`
	EmailTitle   string `json:"email_title"`
	EmailBody    string `json:"email_body"`
}

func NewEmailJob(address, title, body string) EmailJob {
	return EmailJob{
		JobID:        uuid.NewString(),
		EmailAddress: address,
		EmailTitle:   title,
		EmailBody:    body,
	}
}

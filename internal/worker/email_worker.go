package worker

import (
	"context"

	"keymarket/internal/infra"
)

// EmailJob is a plain outbound mail.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker { return &EmailWorker{mailer: mailer} }

func (w *EmailWorker) Handle(_ context.Context, job EmailJob) error {
	return w.mailer.SendAlert(job.To, job.Subject, job.Body)
}

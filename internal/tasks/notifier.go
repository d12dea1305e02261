package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
)

// AsynqBookingNotifier queues booking confirmation emails instead of sending
// them inline.
type AsynqBookingNotifier struct {
	client *asynq.Client
}

func NewAsynqBookingNotifier(client *asynq.Client) *AsynqBookingNotifier {
	return &AsynqBookingNotifier{client: client}
}

func (n *AsynqBookingNotifier) BookingConfirmed(ctx context.Context, email string, residency *models.Residency, visitDate string) error {
	payload, err := json.Marshal(EmailTaskPayload{
		To:      email,
		Subject: fmt.Sprintf("Visit booked: %s", residency.Title),
		Body: fmt.Sprintf("Your visit to %s (%s, %s) is booked for %s.",
			residency.Title, residency.Address, residency.City, visitDate),
	})
	if err != nil {
		return fmt.Errorf("encode email task payload: %w", err)
	}
	_, err = n.client.EnqueueContext(ctx, asynq.NewTask(TypeEmailDelivery, payload), asynq.Queue("default"))
	if err != nil {
		return fmt.Errorf("enqueue email task: %w", err)
	}
	return nil
}

package handler

import (
	"github.com/homecare/nursing-api/internal/core/domain"
	"github.com/homecare/nursing-api/internal/core/ports"
)

const serviceRequestsPath = "/v1/service-requests/"

func toServiceRequestResponse(sr *domain.ServiceRequest) serviceRequestResponse {
	out := serviceRequestResponse{
		ID:               sr.ID,
		ClientID:         sr.ClientID,
		NurseID:          sr.NurseID,
		PatientIDs:       sr.PatientIDs,
		Details:          sr.Details,
		ScheduledDate:    sr.ScheduledDate,
		Rate:             sr.Rate,
		State:            string(sr.State),
		PaymentCollected: sr.PaymentCollected,
		PaymentReleased:  sr.PaymentReleased,
		ServiceNotes:     sr.ServiceNotes,
		CreatedAt:        sr.CreatedAt,
		UpdatedAt:        sr.UpdatedAt,
		Links: serviceRequestLinks{
			Self:    serviceRequestsPath + sr.ID,
			History: serviceRequestsPath + sr.ID + "/history",
		},
	}
	if out.PatientIDs == nil {
		out.PatientIDs = []string{}
	}
	if sr.Report != nil {
		out.Report = &reportResponse{
			Observations:    sr.Report.Observations,
			Recommendations: sr.Report.Recommendations,
			FiledAt:         sr.Report.FiledAt,
		}
	}
	return out
}

func toPaymentResponse(res *ports.PaymentResult) paymentResponse {
	return paymentResponse{
		ServiceRequest: toServiceRequestResponse(res.ServiceRequest),
		Transaction: transactionResponse{
			ID:               res.Transaction.ID,
			ServiceRequestID: res.Transaction.ServiceRequestID,
			Amount:           res.Transaction.Amount,
			Reference:        res.Transaction.Reference,
			CreatedAt:        res.Transaction.CreatedAt,
		},
	}
}

func toLifecycleEventResponses(events []*domain.LifecycleEvent) []lifecycleEventResponse {
	out := make([]lifecycleEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, lifecycleEventResponse{
			Transition: string(ev.Transition),
			ActorID:    ev.ActorID,
			ActorRole:  string(ev.ActorRole),
			State:      string(ev.State),
			OccurredAt: ev.OccurredAt,
		})
	}
	return out
}

package dto

import (
	"time"

	"github.com/BruksfildServices01/agenda-core/internal/models"
)

type ReservationListDTO struct {
	ID           uint      `json:"id"`
	ResourceID   uint      `json:"resource_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customer_name"`
	ServiceName  string    `json:"service_name"`
}

func ToReservationList(list []models.Reservation) []ReservationListDTO {
	out := make([]ReservationListDTO, 0, len(list))
	for _, r := range list {
		item := ReservationListDTO{
			ID:         r.ID,
			ResourceID: r.ResourceID,
			StartTime:  r.StartTime,
			EndTime:    r.EndTime,
			Status:     r.Status,
		}
		if r.Customer != nil {
			item.CustomerName = r.Customer.Name
		}
		if r.Service != nil {
			item.ServiceName = r.Service.Name
		}
		out = append(out, item)
	}
	return out
}

package workplace

type WorkplaceResponse struct {
	ID            string  `json:"id"`
	OwnerID       string  `json:"owner_id"`
	Name          string  `json:"name"`
	Address       *string `json:"address,omitempty"`
	WeeklyRestDay *string `json:"weekly_rest_day,omitempty"`
}

func ToResponse(w Workplace) WorkplaceResponse {
	return WorkplaceResponse{
		ID:            w.ID,
		OwnerID:       w.OwnerID,
		Name:          w.Name,
		Address:       w.Address,
		WeeklyRestDay: w.WeeklyRestDay,
	}
}

package catalog

type CreateBuildingRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

type UpdateBuildingRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type CreateClassroomRequest struct {
	BuildingID  string `json:"building_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Floor       int    `json:"floor" binding:"omitempty,min=0,max=100"`
	Rows        int    `json:"rows" binding:"omitempty,min=1,max=26"`
	SeatsPerRow int    `json:"seats_per_row" binding:"omitempty,min=1,max=99"`
	OpenTime    string `json:"open_time" binding:"omitempty"`
	CloseTime   string `json:"close_time" binding:"omitempty"`
}

type UpdateClassroomRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	Floor     *int    `json:"floor" binding:"omitempty,min=0,max=100"`
	Status    *string `json:"status" binding:"omitempty,oneof=OPEN CLOSED"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
}

type UpdateSeatRequest struct {
	Status    *string `json:"status" binding:"omitempty,oneof=AVAILABLE DISABLED"`
	HasOutlet *bool   `json:"has_outlet"`
}

type ClassroomResponse struct {
	Classroom
	TotalSeats int `json:"total_seats"`
}

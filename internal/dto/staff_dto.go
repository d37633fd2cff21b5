package dto

import "time"

type VerifyStaffRequest struct {
	StaffId   string `json:"staff_id" validate:"required"`
	StaffName string `json:"staff_name" validate:"required"`
}

type VerifyStaffResponse struct {
	StaffId   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
	Token     string `json:"token"`
}

type StaffResponse struct {
	StaffId   string     `json:"staff_id"`
	StaffName string     `json:"staff_name"`
	LastLogin *time.Time `json:"last_login"`
}

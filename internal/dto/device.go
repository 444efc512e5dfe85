package dto

type DeviceRegisterRequest struct {
	DeviceID   string  `json:"device_id"`
	DeviceType string  `json:"device_type"`
	PNToken    *string `json:"pn_token,omitempty"`
}

type StatusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

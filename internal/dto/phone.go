package dto

type CellphoneRegisterRequest struct {
	CellphoneNumber string `json:"cellphone_number"`
	CellphoneCC     string `json:"cellphone_cc"`
}

type CellphoneVerifyRequest struct {
	ValidationCode string `json:"validation_code"`
}

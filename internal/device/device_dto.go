package device

type RegisterDeviceRequest struct {
	Name string `json:"name" binding:"required"`
}

type RegisterDeviceResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"api_key"`
}

type TokenRequest struct {
	DeviceID string `json:"device_id" binding:"required,uuid"`
	APIKey   string `json:"api_key" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

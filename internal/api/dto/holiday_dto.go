package dto

// HolidayResponse is one national-holiday entry.
type HolidayResponse struct {
	Date      string `json:"date"`
	LocalName string `json:"local_name"`
	Name      string `json:"name"`
}

// HolidayYearResponse lists the cached holidays for one country and year.
type HolidayYearResponse struct {
	CountryCode string            `json:"country_code"`
	Year        int               `json:"year"`
	Count       int               `json:"count"`
	Holidays    []HolidayResponse `json:"holidays"`
}

// TokenRequest carries service-client credentials.
type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TokenResponse returns an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

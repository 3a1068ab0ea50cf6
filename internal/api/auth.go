package api

import "context"

type loginRequestBody struct {
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
}

type verifyBody struct {
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
	OTP         string `json:"otp"`
}

// VerifyResult carries the outcome of OTP verification.  AccessToken is the
// bearer token the caller must persist; Message is server copy for the shell.
type VerifyResult struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// LoginRequest asks the server to send an OTP to the given phone number.  The
// returned message is shown to the guest.  Calling it again re-sends the OTP.
func (c *Client) LoginRequest(ctx context.Context, countryCode, phone string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, "POST", "/auth/login-request", "",
		loginRequestBody{CountryCode: countryCode, PhoneNumber: phone}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// VerifyAccountAccess exchanges phone+OTP for an access token.  A response
// without a token is malformed: the session cannot proceed on it.
func (c *Client) VerifyAccountAccess(ctx context.Context, countryCode, phone, otp string) (VerifyResult, error) {
	var out VerifyResult
	err := c.do(ctx, "POST", "/auth/verify-account-access", "",
		verifyBody{CountryCode: countryCode, PhoneNumber: phone, OTP: otp}, &out)
	if err != nil {
		return VerifyResult{}, err
	}
	if out.AccessToken == "" {
		return VerifyResult{}, ErrMalformed
	}
	return out, nil
}

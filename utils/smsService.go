package utils

import (
	"edutalks/config"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// smsResponse is the provider's reply envelope
type smsResponse struct {
	Return  bool   `json:"return"`
	Message string `json:"message"`
}

// SendOTPToMobile delivers an OTP over the SMS gateway. The provider takes
// the code and validity window (minutes) as pipe-separated template values.
func SendOTPToMobile(mobile, otp string) error {
	cfg := config.AppConfig

	client := resty.New().SetTimeout(10 * time.Second)

	var result smsResponse
	resp, err := client.R().
		SetQueryParams(map[string]string{
			"authorization":    cfg.SmsApiKey,
			"route":            "dlt",
			"sender_id":        cfg.SmsSenderID,
			"variables_values": fmt.Sprintf("%s|10", otp),
			"flash":            "0",
			"numbers":          mobile,
		}).
		SetResult(&result).
		Get(cfg.SmsApiUrl)
	if err != nil {
		log.Printf("Error while sending OTP: %v", err)
		return err
	}

	if resp.StatusCode() != 200 || !result.Return {
		log.Printf("Failed to send OTP, response code: %d, message: %s", resp.StatusCode(), result.Message)
		return fmt.Errorf("failed to send OTP, code: %d", resp.StatusCode())
	}

	log.Println("OTP sent successfully to", mobile)
	return nil
}

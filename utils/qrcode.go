package utils

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"campus-connect/models"

	qrcode "github.com/skip2/go-qrcode"
)

const pickupCodeSize = 256

// EncodePickupCode renders the payload as a PNG QR code data URL that the
// buyer shows to the seller at pickup.
func EncodePickupCode(payload models.PickupPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal pickup payload: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, pickupCodeSize)
	if err != nil {
		return "", fmt.Errorf("render pickup code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

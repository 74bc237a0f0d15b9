package services

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImageKitService produces ephemeral signed upload parameters for the image
// host. It is stateless and not session-aware.
type ImageKitService struct {
	publicKey   string
	privateKey  string
	urlEndpoint string
}

// NewImageKitService creates an ImageKitService.
func NewImageKitService(publicKey, privateKey, urlEndpoint string) *ImageKitService {
	return &ImageKitService{
		publicKey:   publicKey,
		privateKey:  privateKey,
		urlEndpoint: urlEndpoint,
	}
}

// UploadAuthParams is handed to the browser so it can upload directly.
type UploadAuthParams struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// AuthParams mints a one-time token valid for 30 minutes, signed with the
// private key over token+expire as the host expects.
func (s *ImageKitService) AuthParams() (UploadAuthParams, error) {
	if s.privateKey == "" {
		return UploadAuthParams{}, fmt.Errorf("imagekit private key not configured")
	}

	tok := uuid.NewString()
	expire := time.Now().Add(30 * time.Minute).Unix()

	mac := hmac.New(sha1.New, []byte(s.privateKey))
	fmt.Fprintf(mac, "%s%d", tok, expire)

	return UploadAuthParams{
		Token:     tok,
		Expire:    expire,
		Signature: hex.EncodeToString(mac.Sum(nil)),
	}, nil
}

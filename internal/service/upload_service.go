package service

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gramseva/grievance-service/internal/config"
	apperrors "github.com/gramseva/grievance-service/pkg/util"
)

// UploadSignature is a time-boxed, folder-scoped credential letting the
// client upload directly to the image host. The server never touches image
// bytes; the client reports back only the resulting URL.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	CloudName string `json:"cloudName"`
	APIKey    string `json:"apiKey"`
	Folder    string `json:"folder"`
}

// UploadService signs direct-upload requests for the object-storage
// collaborator.
type UploadService struct {
	cfg config.UploadConfig
	now func() time.Time
}

// NewUploadService constructs the service.
func NewUploadService(cfg config.UploadConfig) *UploadService {
	return &UploadService{cfg: cfg, now: time.Now}
}

// Sign produces a Cloudinary-compatible signature: SHA-1 over the
// alphabetically ordered parameter string plus the API secret.
func (s *UploadService) Sign() (*UploadSignature, error) {
	if s.cfg.APISecret == "" || s.cfg.CloudName == "" || s.cfg.APIKey == "" {
		return nil, apperrors.NewInternalError(fmt.Errorf("upload signing not configured"))
	}

	timestamp := s.now().Unix()
	toSign := fmt.Sprintf("folder=%s&timestamp=%d%s", s.cfg.Folder, timestamp, s.cfg.APISecret)
	digest := sha1.Sum([]byte(toSign))

	return &UploadSignature{
		Signature: hex.EncodeToString(digest[:]),
		Timestamp: timestamp,
		CloudName: s.cfg.CloudName,
		APIKey:    s.cfg.APIKey,
		Folder:    s.cfg.Folder,
	}, nil
}

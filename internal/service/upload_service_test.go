package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramseva/grievance-service/internal/config"
	apperrors "github.com/gramseva/grievance-service/pkg/util"
)

func TestSignProducesCloudinarySignature(t *testing.T) {
	svc := NewUploadService(config.UploadConfig{
		CloudName: "village-cloud",
		APIKey:    "key-123",
		APISecret: "test-secret",
		Folder:    "village_reports",
	})
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	sig, err := svc.Sign()
	require.NoError(t, err)

	// sha1("folder=village_reports&timestamp=1700000000" + "test-secret")
	assert.Equal(t, "8749d55e4fe2604ac41e98c87b8340883fa6b2c4", sig.Signature)
	assert.Equal(t, int64(1700000000), sig.Timestamp)
	assert.Equal(t, "village-cloud", sig.CloudName)
	assert.Equal(t, "key-123", sig.APIKey)
	assert.Equal(t, "village_reports", sig.Folder)
}

func TestSignRequiresConfiguration(t *testing.T) {
	svc := NewUploadService(config.UploadConfig{Folder: "village_reports"})

	_, err := svc.Sign()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
}

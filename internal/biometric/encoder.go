package biometric

import (
	"context"

	biometricerrors "github.com/Bdavid117/sioma-app/internal/biometric/errors"
)

//go:generate mockgen -source=encoder.go -destination=mock/encoder_mock.go -package=mock

// Encoder turns a raw face image into a fixed-length feature vector. The
// vector is opaque to this service; its dimensionality is a convention with
// the external face service.
type Encoder interface {
	ComputeFingerprint(ctx context.Context, image []byte) ([]float64, error)
}

// Disabled is the capability-absent encoder: it is wired when no face
// service is configured so callers get a clear error instead of a crash.
type Disabled struct{}

func NewDisabled() Disabled {
	return Disabled{}
}

func (Disabled) ComputeFingerprint(ctx context.Context, image []byte) ([]float64, error) {
	return nil, biometricerrors.ErrServiceUnavailable
}

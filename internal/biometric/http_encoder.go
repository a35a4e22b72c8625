package biometric

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	biometricerrors "github.com/Bdavid117/sioma-app/internal/biometric/errors"

	"go.uber.org/zap"
)

type encodeRequest struct {
	ImageB64 string `json:"image_b64"`
}

type encodeResponse struct {
	Encoding []float64 `json:"encoding"`
	Error    string    `json:"error,omitempty"`
	Code     string    `json:"code,omitempty"`
}

// HTTPEncoder calls the external face service over HTTP. Failures are mapped
// onto the adapter error set so batch engines can surface them per item.
type HTTPEncoder struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPEncoder(baseURL string, logger ...*zap.Logger) *HTTPEncoder {
	l := zap.L().Named("biometric.encoder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("biometric.encoder")
	}
	return &HTTPEncoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  l,
	}
}

// NewFromEnv returns the HTTP encoder when FACE_SERVICE_URL is set and the
// Disabled encoder otherwise.
func NewFromEnv(logger ...*zap.Logger) Encoder {
	url := os.Getenv("FACE_SERVICE_URL")
	if url == "" {
		return NewDisabled()
	}
	return NewHTTPEncoder(url, logger...)
}

func (e *HTTPEncoder) ComputeFingerprint(ctx context.Context, image []byte) ([]float64, error) {
	body, err := json.Marshal(encodeRequest{
		ImageB64: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/encode", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := e.client.Do(req)
	if err != nil {
		e.logger.Error("face service unreachable", zap.Error(err))
		return nil, biometricerrors.ErrServiceUnavailable
	}
	defer res.Body.Close()

	var parsed encodeResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode face service response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, mapServiceError(res.StatusCode, parsed)
	}

	if len(parsed.Encoding) == 0 {
		return nil, biometricerrors.ErrNoFaceDetected
	}

	return parsed.Encoding, nil
}

func mapServiceError(status int, parsed encodeResponse) error {
	switch parsed.Code {
	case "NO_FACE":
		return biometricerrors.ErrNoFaceDetected
	case "UNSUPPORTED_IMAGE":
		return biometricerrors.ErrUnsupportedImage
	}
	if status >= http.StatusInternalServerError {
		return biometricerrors.ErrServiceUnavailable
	}
	if parsed.Error != "" {
		return fmt.Errorf("face service: %s", parsed.Error)
	}
	return fmt.Errorf("face service returned status %d", status)
}

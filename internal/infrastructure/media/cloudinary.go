package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/TranHoa21/Mufilika/config"
	"github.com/TranHoa21/Mufilika/pkg/errs"
	"github.com/TranHoa21/Mufilika/pkg/httpclient"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// Uploader pushes tour images to the media host and returns the public URL.
type Uploader interface {
	UploadImage(ctx context.Context, contentType string, data []byte) (string, error)
}

type CloudinaryUploader struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	cb        *gobreaker.CircuitBreaker[[]byte]
}

func CreateCloudinaryUploader(config *config.Config, cb *gobreaker.CircuitBreaker[[]byte]) *CloudinaryUploader {
	return &CloudinaryUploader{
		cloudName: config.CloudinaryConfig.CloudName,
		apiKey:    config.CloudinaryConfig.APIKey,
		apiSecret: config.CloudinaryConfig.APISecret,
		folder:    config.CloudinaryConfig.Folder,
		cb:        cb,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

func (u *CloudinaryUploader) UploadImage(ctx context.Context, contentType string, data []byte) (string, error) {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	// Cloudinary signs the alphabetically ordered upload parameters followed by
	// the API secret.
	toSign := fmt.Sprintf("folder=%s&timestamp=%s%s", u.folder, timestamp, u.apiSecret)
	digest := sha1.Sum([]byte(toSign))
	signature := hex.EncodeToString(digest[:])

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("file", fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)))
	writer.WriteField("api_key", u.apiKey)
	writer.WriteField("timestamp", timestamp)
	writer.WriteField("folder", u.folder)
	writer.WriteField("signature", signature)
	if err := writer.Close(); err != nil {
		return "", err
	}

	respBody, err := u.cb.Execute(func() ([]byte, error) {
		statusCode, respBody, err := httpclient.SendRequest(ctx, httpclient.HttpRequest{
			URL:    fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", u.cloudName),
			Method: http.MethodPost,
			Body:   body.Bytes(),
			Headers: map[string]string{
				"Content-Type": writer.FormDataContentType(),
			},
			Timeout: 30 * time.Second,
		})
		if err != nil {
			return nil, err
		}
		if statusCode != http.StatusOK {
			return nil, fmt.Errorf("media host returned non-OK status: %d", statusCode)
		}
		return respBody, nil
	})
	if err != nil {
		log.Error().Err(err).Str("component", "UploadImage").Msg("")
		return "", errs.ErrMediaUpload
	}

	var uploadResp uploadResponse
	if err := json.Unmarshal(respBody, &uploadResp); err != nil {
		log.Error().Err(err).Str("component", "UploadImage").Msg("")
		return "", errs.ErrMediaUpload
	}

	return uploadResp.SecureURL, nil
}

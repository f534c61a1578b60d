package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CloudinaryOptions configures the Cloudinary upload client.
type CloudinaryOptions struct {
	CloudName  string
	APIKey     string
	APISecret  string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// CloudinaryClient implements Uploader against Cloudinary's upload API.
type CloudinaryClient struct {
	httpClient *http.Client
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	now        func() time.Time
}

// NewCloudinaryClient creates a signed-upload client.
func NewCloudinaryClient(opts CloudinaryOptions) *CloudinaryClient {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.cloudinary.com"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &CloudinaryClient{
		httpClient: client,
		baseURL:    base,
		cloudName:  strings.TrimSpace(opts.CloudName),
		apiKey:     strings.TrimSpace(opts.APIKey),
		apiSecret:  strings.TrimSpace(opts.APISecret),
		now:        time.Now,
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload persists the payload under the category folder. Remote URLs are
// passed through for Cloudinary to fetch; inline bytes are sent as a data URI.
func (c *CloudinaryClient) Upload(ctx context.Context, payload Payload, category string) (UploadResult, error) {
	if c == nil {
		return UploadResult{}, errors.New("cloudinary client not configured")
	}
	if c.cloudName == "" || c.apiKey == "" || c.apiSecret == "" {
		return UploadResult{}, errors.New("cloudinary: credentials are missing")
	}

	file := strings.TrimSpace(payload.RemoteURL)
	if file == "" {
		if len(payload.Data) == 0 {
			return UploadResult{}, errors.New("cloudinary: empty payload")
		}
		mimeType := payload.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		file = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(payload.Data)
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if category = strings.TrimSpace(category); category != "" {
		params["folder"] = category
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("file", file)
	_ = mw.WriteField("api_key", c.apiKey)
	for key, value := range params {
		_ = mw.WriteField(key, value)
	}
	_ = mw.WriteField("signature", signParams(params, c.apiSecret))
	if err := mw.Close(); err != nil {
		return UploadResult{}, err
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, err
	}
	defer resp.Body.Close()

	var out cloudinaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return UploadResult{}, fmt.Errorf("cloudinary: http %d", resp.StatusCode)
		}
		return UploadResult{}, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if out.Error.Message != "" {
			return UploadResult{}, fmt.Errorf("cloudinary error: %s", out.Error.Message)
		}
		return UploadResult{}, fmt.Errorf("cloudinary: http %d", resp.StatusCode)
	}

	url := out.SecureURL
	if url == "" {
		url = out.URL
	}
	if url == "" {
		return UploadResult{}, errors.New("cloudinary: missing url in response")
	}
	return UploadResult{URL: url, ID: out.PublicID}, nil
}

// signParams implements Cloudinary request signing: parameters sorted by key,
// joined as key=value pairs with '&', SHA-1 over that string plus the secret.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"go.uber.org/zap"
)

// RedexClient talks to the Redex renewable-certificate registry.
type RedexClient struct {
	baseURL      string
	apiKey       string
	clientID     string
	clientSecret string
	client       *http.Client
	logger       *zap.Logger
}

// NewRedexClient returns client wrapper.
func NewRedexClient(baseURL, apiKey, clientID, clientSecret string, logger *zap.Logger) *RedexClient {
	return &RedexClient{
		baseURL:      baseURL,
		apiKey:       apiKey,
		clientID:     clientID,
		clientSecret: clientSecret,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Enabled reports whether the client is configured with a registry endpoint.
func (c *RedexClient) Enabled() bool {
	return c.baseURL != ""
}

// APIError carries a non-success registry response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("redex: status %d: %s", e.Status, e.Message)
}

type authResponse struct {
	Data struct {
		AccessToken string `json:"AccessToken"`
	} `json:"Data"`
}

// FileUploadResult identifies an accepted device declaration document.
type FileUploadResult struct {
	ID             string `json:"Id"`
	ValidationCode string `json:"ValidationCode"`
}

type fileUploadResponse struct {
	Data FileUploadResult `json:"Data"`
}

// InverterDevice describes one inverter inside a grouped registration.
type InverterDevice struct {
	RemoteInvID string `json:"RemoteInvId"`
}

// GroupedDevice is one device entry of a grouped registration request.
type GroupedDevice struct {
	DeclarationFormFileID string           `json:"DeclarationFormFileId"`
	Inverters             []InverterDevice `json:"Inverters"`
}

// GroupedRegistration is the request body for grouped i-rec device applications.
type GroupedRegistration struct {
	Devices []GroupedDevice `json:"Devices"`
}

// RegistrationResult is the registry's answer to a grouped registration.
type RegistrationResult struct {
	StatusCode int             `json:"StatusCode"`
	Data       json.RawMessage `json:"Data"`
}

// MonthlyGenerationData carries one year of per-month production.
type MonthlyGenerationData struct {
	Year                          int                `json:"Year"`
	PeriodProductionPerMonthInKWh map[string]float64 `json:"PeriodProductionPerMonthInKWh"`
}

// MonthlyGeneration is one inverter's yearly production report.
type MonthlyGeneration struct {
	RemoteInvID string                `json:"RemoteInvId"`
	Data        MonthlyGenerationData `json:"Data"`
}

// GenerateToken authenticates with the api-key grant and returns a bearer token.
func (c *RedexClient) GenerateToken(ctx context.Context) (string, error) {
	body := map[string]string{
		"GrantType":    "api_key",
		"ApiKey":       c.apiKey,
		"ClientId":     c.clientID,
		"ClientSecret": c.clientSecret,
	}

	var resp authResponse
	if err := c.postJSON(ctx, "/connect/token", "", body, &resp); err != nil {
		c.logger.Error("redex token generation failed", zap.Error(err))
		return "", err
	}
	return resp.Data.AccessToken, nil
}

// UploadDeviceFile submits a device declaration document and returns its file id.
func (c *RedexClient) UploadDeviceFile(ctx context.Context, fileName, contentType string, content []byte) (*FileUploadResult, error) {
	token, err := c.GenerateToken(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="File"; filename=%q`, fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/devices", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	var resp fileUploadResponse
	if err := c.do(req, &resp); err != nil {
		c.logger.Error("redex file upload failed", zap.String("file_name", fileName), zap.Error(err))
		return nil, err
	}
	return &resp.Data, nil
}

// RegisterGroupedDevices files a grouped i-rec device application.
func (c *RedexClient) RegisterGroupedDevices(ctx context.Context, registration GroupedRegistration) (*RegistrationResult, error) {
	token, err := c.GenerateToken(ctx)
	if err != nil {
		return nil, err
	}

	var resp RegistrationResult
	if err := c.postJSON(ctx, "/device-applications/i-rec/grouped", token, registration, &resp); err != nil {
		c.logger.Error("redex device registration failed", zap.Error(err))
		return nil, err
	}
	return &resp, nil
}

// PushMonthlyGeneration reports per-month production for registered inverters.
func (c *RedexClient) PushMonthlyGeneration(ctx context.Context, reports []MonthlyGeneration) error {
	token, err := c.GenerateToken(ctx)
	if err != nil {
		return err
	}

	if err := c.postJSON(ctx, "/generation-datas/monthly-data", token, reports, nil); err != nil {
		c.logger.Error("redex monthly data push failed", zap.Error(err))
		return err
	}
	return nil
}

func (c *RedexClient) postJSON(ctx context.Context, path, token string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, out)
}

func (c *RedexClient) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: string(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

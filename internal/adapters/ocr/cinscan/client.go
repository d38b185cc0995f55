package cinscan

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"animal-registry/internal/platform/httpclient"
	"animal-registry/internal/ports/ocr"
)

var (
	ErrNotConfigured = errors.New("ocr client not configured")
	ErrNoCIN         = errors.New("ocr could not extract a cin")
)

// Client habla con el backend OCR de cédulas (un servicio aparte que recibe
// la imagen y devuelve nombre + CIN). Implementa ocr.IDCardScanner.
type Client struct {
	http *httpclient.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

type scanRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type scanResponse struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	CIN       string `json:"cin"`
}

func (c *Client) Scan(ctx context.Context, imageJPEG []byte) (ocr.IDCard, error) {
	if !c.IsConfigured() {
		return ocr.IDCard{}, ErrNotConfigured
	}
	if len(imageJPEG) == 0 {
		return ocr.IDCard{}, errors.New("empty image")
	}

	var resp scanResponse
	err := c.http.DoJSON(ctx, "POST", "/scan", nil, scanRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(imageJPEG),
	}, &resp)
	if err != nil {
		return ocr.IDCard{}, err
	}

	card := ocr.IDCard{
		FirstName: strings.TrimSpace(resp.FirstName),
		LastName:  strings.TrimSpace(resp.LastName),
		CIN:       strings.TrimSpace(resp.CIN),
	}
	if card.CIN == "" {
		return ocr.IDCard{}, ErrNoCIN
	}
	return card, nil
}

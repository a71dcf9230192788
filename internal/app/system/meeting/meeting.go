// Package meeting provisions video-meeting join URLs for booked sessions.
//
// The Zoom implementation authenticates with Server-to-Server OAuth
// (grant_type=account_credentials) and creates one scheduled meeting per
// call. Callers treat every error as non-fatal and fall back to a
// placeholder URL.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNotConfigured is returned by the disabled provisioner.
var ErrNotConfigured = errors.New("meeting: provisioner not configured")

// Request describes the meeting to create.
type Request struct {
	Topic    string
	Start    time.Time
	Duration time.Duration
}

// Provisioner creates a meeting and returns its join URL.
type Provisioner interface {
	CreateMeeting(ctx context.Context, req Request) (string, error)
}

// Disabled is the provisioner used when no meeting credentials are set.
type Disabled struct{}

func (Disabled) CreateMeeting(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}

// ZoomConfig holds Server-to-Server OAuth app credentials.
type ZoomConfig struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	// HostUser is the Zoom user id or email that owns created meetings.
	HostUser string
	APIURL   string // default https://api.zoom.us/v2
	TokenURL string // default https://zoom.us/oauth/token
	Timezone string
	Timeout  time.Duration
}

// Configured reports whether all credentials are present.
func (c ZoomConfig) Configured() bool {
	return c.AccountID != "" && c.ClientID != "" && c.ClientSecret != ""
}

// Zoom creates scheduled Zoom meetings.
type Zoom struct {
	cfg    ZoomConfig
	client *resty.Client
	log    *zap.Logger
}

// NewZoom builds a Zoom provisioner. baseClient, when non-nil, is used for
// both the token and the API calls (tests point it at httptest servers).
func NewZoom(cfg ZoomConfig, baseClient *http.Client, logger *zap.Logger) *Zoom {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.zoom.us/v2"
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = "https://zoom.us/oauth/token"
	}
	if cfg.HostUser == "" {
		cfg.HostUser = "me"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
		EndpointParams: url.Values{
			"grant_type": {"account_credentials"},
			"account_id": {cfg.AccountID},
		},
	}
	tokenCtx := context.Background()
	if baseClient != nil {
		tokenCtx = context.WithValue(tokenCtx, oauth2.HTTPClient, baseClient)
	}
	// Client caches the access token until shortly before expiry.
	httpClient := cc.Client(tokenCtx)

	rc := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Zoom{cfg: cfg, client: rc, log: logger}
}

type zoomSettings struct {
	HostVideo        bool `json:"host_video"`
	ParticipantVideo bool `json:"participant_video"`
	JoinBeforeHost   bool `json:"join_before_host"`
	WaitingRoom      bool `json:"waiting_room"`
}

type zoomMeetingRequest struct {
	Topic     string       `json:"topic"`
	Type      int          `json:"type"`
	StartTime string       `json:"start_time"`
	Duration  int          `json:"duration"`
	Timezone  string       `json:"timezone,omitempty"`
	Settings  zoomSettings `json:"settings"`
}

type zoomMeetingResponse struct {
	ID      int64  `json:"id"`
	JoinURL string `json:"join_url"`
}

type zoomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateMeeting implements Provisioner.
func (z *Zoom) CreateMeeting(ctx context.Context, req Request) (string, error) {
	minutes := int(req.Duration / time.Minute)
	if minutes <= 0 {
		minutes = 60
	}
	body := zoomMeetingRequest{
		Topic:     req.Topic,
		Type:      2, // scheduled
		StartTime: req.Start.UTC().Format("2006-01-02T15:04:05Z"),
		Duration:  minutes,
		Timezone:  z.cfg.Timezone,
		Settings: zoomSettings{
			HostVideo:        true,
			ParticipantVideo: true,
			JoinBeforeHost:   true,
		},
	}

	var out zoomMeetingResponse
	var zerr zoomError
	resp, err := z.client.R().
		SetContext(ctx).
		SetPathParam("user", z.cfg.HostUser).
		SetBody(body).
		SetResult(&out).
		SetError(&zerr).
		Post("/users/{user}/meetings")
	if err != nil {
		return "", fmt.Errorf("meeting: create: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("meeting: create: status %d: %s", resp.StatusCode(), zerr.Message)
	}
	if out.JoinURL == "" {
		return "", errors.New("meeting: create: response has no join_url")
	}

	if z.log != nil {
		z.log.Info("meeting created",
			zap.Int64("meeting_id", out.ID),
			zap.String("topic", req.Topic),
			zap.Time("start", req.Start))
	}
	return out.JoinURL, nil
}

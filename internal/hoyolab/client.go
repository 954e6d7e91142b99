package hoyolab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://bbs-api-os.hoyolab.com/game_record/genshin/api"
	appVersion     = "1.5.0"
	clientType     = "5"

	requestTimeout = 15 * time.Second
)

// Credentials are the four HoYoLAB session cookies from the settings
// file, sent verbatim on every request.
type Credentials struct {
	LtuidV2       string
	LtokenV2      string
	CookieTokenV2 string
	AccountMidV2  string
}

// Cookie assembles the Cookie header value.
func (c Credentials) Cookie() string {
	return fmt.Sprintf("ltuid_v2=%s; ltoken_v2=%s; cookie_token_v2=%s; account_mid_v2=%s",
		c.LtuidV2, c.LtokenV2, c.CookieTokenV2, c.AccountMidV2)
}

// APIError is a non-zero retcode reported by the API itself. It
// carries the raw response payload. Transport and decoding failures
// are returned as plain errors instead.
type APIError struct {
	Retcode  int
	Message  string
	Response []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Retcode, e.Message)
}

// DailyNote is the real-time notes snapshot for one account.
type DailyNote struct {
	CurrentResin            int  `json:"current_resin"`
	MaxResin                int  `json:"max_resin"`
	CompletedCommissions    int  `json:"finished_task_num"`
	TotalCommissions        int  `json:"total_task_num"`
	ClaimedCommissionReward bool `json:"is_extra_task_reward_received"`
	CurrentRealmCurrency    int  `json:"current_home_coin"`
	MaxRealmCurrency        int  `json:"max_home_coin"`
}

// Every response comes wrapped in the same envelope; data is only
// meaningful when retcode is zero.
type envelope struct {
	Retcode int             `json:"retcode"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client is a minimal HoYoLAB game-record client. Each call is a
// single attempt: no retries, no backoff.
type Client struct {
	http    *http.Client
	baseURL string
	creds   Credentials
	lang    string
}

func New(creds Credentials) *Client {
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: defaultBaseURL,
		creds:   creds,
		lang:    "en-us",
	}
}

// DailyNote fetches the current notes for uid.
func (c *Client) DailyNote(ctx context.Context, uid int) (*DailyNote, error) {
	server, err := ServerFromUID(uid)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/dailyNote?server=%s&role_id=%d", c.baseURL, server, uid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Cookie", c.creds.Cookie())
	req.Header.Set("DS", generateDS())
	req.Header.Set("x-rpc-app_version", appVersion)
	req.Header.Set("x-rpc-client_type", clientType)
	req.Header.Set("x-rpc-language", c.lang)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s from dailyNote", resp.Status)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Retcode != 0 {
		return nil, &APIError{Retcode: env.Retcode, Message: env.Message, Response: body}
	}

	var note DailyNote
	if err := json.Unmarshal(env.Data, &note); err != nil {
		return nil, fmt.Errorf("failed to decode daily note: %w", err)
	}

	return &note, nil
}

// ServerFromUID resolves the game server from the uid's leading digit.
func ServerFromUID(uid int) (string, error) {
	s := strconv.Itoa(uid)
	switch s[0] {
	case '1', '2', '3', '4':
		return "cn_gf01", nil
	case '5':
		return "cn_qd01", nil
	case '6':
		return "os_usa", nil
	case '7':
		return "os_euro", nil
	case '8':
		return "os_asia", nil
	case '9':
		return "os_cht", nil
	default:
		return "", fmt.Errorf("uid %d does not belong to a known server", uid)
	}
}

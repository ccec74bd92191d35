package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_POLARITY_PREFIX = "mood:polarity:"
	VALKEY_RETRY_BACKOFF   = 100 * time.Millisecond
)

type ValkeyOptions struct {
	Address  string
	Password string
	UseTLS   bool
	TTL      time.Duration
}

// ValkeyClient caches oracle polarity scores in Valkey.
type ValkeyClient struct {
	Client valkey.Client
	opts   ValkeyOptions
	mu     sync.RWMutex

	// reconnectMu serializes reconnects without blocking readers of Client.
	reconnectMu sync.Mutex
}

func NewValkeyClient(opts ValkeyOptions) (*ValkeyClient, error) {
	client, err := connectValkey(opts)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", opts.Address))

	return &ValkeyClient{Client: client, opts: opts}, nil
}

func connectValkey(opts ValkeyOptions) (valkey.Client, error) {
	clientOpts := valkey.ClientOption{
		InitAddress:      []string{opts.Address},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if opts.UseTLS {
		clientOpts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	return client, nil
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.Client
}

// recreateClient replaces stale with a fresh connection. When another
// goroutine has already replaced stale it does nothing.
func (vc *ValkeyClient) recreateClient(stale valkey.Client) {
	vc.reconnectMu.Lock()
	defer vc.reconnectMu.Unlock()

	if vc.client() != stale {
		return
	}

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.mu.Lock()
	vc.Client = client
	vc.mu.Unlock()

	stale.Close()
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

// Get returns the cached score for key. A missing key is not an error.
func (vc *ValkeyClient) Get(ctx context.Context, key string) (float64, bool, error) {
	res, err := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(VALKEY_POLARITY_PREFIX + key).Build()
	}, 3)
	if err != nil {
		return 0, false, err
	}

	raw, err := res.ToString()
	if valkey.IsValkeyNil(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("[ValkeyClient] corrupt cached score %q: %w", raw, err)
	}
	return score, true, nil
}

func (vc *ValkeyClient) Set(ctx context.Context, key string, score float64) error {
	value := strconv.FormatFloat(score, 'g', -1, 64)
	ttl := int64(vc.opts.TTL / time.Second)

	_, err := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		if ttl > 0 {
			return c.B().Set().Key(VALKEY_POLARITY_PREFIX + key).Value(value).ExSeconds(ttl).Build()
		}
		return c.B().Set().Key(VALKEY_POLARITY_PREFIX + key).Value(value).Build()
	}, 3)

	return err
}

func (vc *ValkeyClient) Healthy(ctx context.Context) bool {
	c := vc.client()
	return c.Do(ctx, c.B().Ping().Build()).Error() == nil
}

// DoWithRetry runs the command from build up to attempts times, retrying
// connection errors only. build runs once per attempt because valkey-go
// recycles a command once it has been sent.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, attempts int) (valkey.ValkeyResult, error) {
	if attempts < 1 {
		attempts = 1
	}

	var result valkey.ValkeyResult
	attempt := 0
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(VALKEY_RETRY_BACKOFF))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		c := vc.client()
		result = c.Do(ctx, build(c))
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			return nil
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		if !isConnectionError(err) {
			return err
		}
		vc.recreateClient(c)
		return retry.RetryableError(err)
	})

	return result, err
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}

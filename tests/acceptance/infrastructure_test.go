package acceptance

import (
	"context"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/bilogames/account-service/internal/google"
	"github.com/bilogames/account-service/internal/mail"
	"github.com/bilogames/account-service/pkg/database"
	"github.com/bilogames/account-service/pkg/observability"
	"go.uber.org/zap"
)

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// outbox records every message instead of delivering it
type outbox struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (o *outbox) Send(ctx context.Context, msg mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
	return nil
}

func (o *outbox) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = nil
}

// lastCode returns the code in the latest message sent to the address
func (o *outbox) lastCode(to string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.messages) - 1; i >= 0; i-- {
		if o.messages[i].To != to {
			continue
		}
		if code := codePattern.FindString(o.messages[i].Body); code != "" {
			return code
		}
	}
	return ""
}

func (o *outbox) count(to string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, msg := range o.messages {
		if msg.To == to {
			n++
		}
	}
	return n
}

// testInfrastructure shares the suite's connections with the app; the suite owns their lifecycle
type testInfrastructure struct {
	postgres  *database.Postgres
	redis     *database.Redis
	logger    *zap.Logger
	telemetry *observability.Telemetry
	outbox    *outbox
}

func (i *testInfrastructure) Postgres() *database.Postgres { return i.postgres }
func (i *testInfrastructure) Redis() *database.Redis { return i.redis }
func (i *testInfrastructure) Logger() *zap.Logger { return i.logger }
func (i *testInfrastructure) Telemetry() *observability.Telemetry { return i.telemetry }
func (i *testInfrastructure) MailSender() mail.Sender { return i.outbox }
func (i *testInfrastructure) GoogleKeys() *google.JWKS { return nil }
func (i *testInfrastructure) HTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

func (i *testInfrastructure) Shutdown(ctx context.Context) error {
	return observability.Shutdown(ctx, i.telemetry, nil)
}

package risk

import (
	"regexp"
	"strings"
	"time"

	"booking-engine/internal/pkg/errs"

	"github.com/mssola/user_agent"
)

type Reason string

const (
	ReasonHoneypot        Reason = "honeypot"
	ReasonTooFast         Reason = "too_fast"
	ReasonStaleForm       Reason = "stale_form"
	ReasonChallenge       Reason = "challenge_failed"
	ReasonNoInteraction   Reason = "no_interaction"
	ReasonMissingName     Reason = "missing_name"
	ReasonMissingEmail    Reason = "missing_email"
	ReasonInvalidEmail    Reason = "invalid_email"
	ReasonUserAgent       Reason = "suspicious_user_agent"
	ReasonBlockedIP       Reason = "blocked_ip"
	ReasonBlockedEmail    Reason = "blocked_email"
	ReasonDisposableEmail Reason = "disposable_email"
	ReasonRateLimited     Reason = "rate_limited"
)

const (
	minEmailLength = 5
	maxEmailLength = 100
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission carries the signals a public form posts alongside its contact fields.
type Submission struct {
	Honeypot   string
	RenderedAt time.Time
	Challenge  string
	Clicks     int
	Keystrokes int
	Name       string
	Email      string
	Phone      string
}

type RequestContext struct {
	IP         string
	UserAgent  string
	ReceivedAt time.Time
}

type Assessment struct {
	Accept bool
	Reason Reason
	Detail string
	// Block asks the caller to block the source IP for later submissions.
	Block bool
}

func accept() Assessment {
	return Assessment{Accept: true}
}

func reject(reason Reason, detail string, block bool) Assessment {
	return Assessment{Reason: reason, Detail: detail, Block: block}
}

// Err converts a rejection into an error marked ErrSubmissionRejected, nil when accepted.
func (a Assessment) Err() error {
	if a.Accept {
		return nil
	}
	return errs.Mark(&RejectionError{Reason: a.Reason, Detail: a.Detail}, errs.ErrSubmissionRejected)
}

type RejectionError struct {
	Reason Reason
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return "submission rejected: " + string(e.Reason)
	}
	return "submission rejected: " + string(e.Reason) + ": " + e.Detail
}

func Rejected(reason Reason, detail string) error {
	return reject(reason, detail, false).Err()
}

type Config struct {
	MinElapsed         time.Duration
	MaxElapsed         time.Duration
	ChallengeWindow    time.Duration
	ChallengeSecret    string
	MinClicks          int
	MinKeystrokes      int
	MinUserAgentLength int
	BlockedIPs         []string
	BlockedEmails      []string
	DisposableDomains  []string
}

type Scorer struct {
	cfg        Config
	challenge  Challenge
	blockedIP  map[string]struct{}
	blockedEml map[string]struct{}
	disposable map[string]struct{}
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{
		cfg:        cfg,
		challenge:  NewChallenge(cfg.ChallengeWindow, cfg.ChallengeSecret),
		blockedIP:  toSet(cfg.BlockedIPs),
		blockedEml: toSet(cfg.BlockedEmails),
		disposable: toSet(cfg.DisposableDomains),
	}
}

func (s *Scorer) Challenge() Challenge {
	return s.challenge
}

type check func(sub Submission, rc RequestContext) (Assessment, bool)

// Assess runs the checks in a fixed order and returns the first failure.
// Signals are never blended, so the same input always yields the same reason.
func (s *Scorer) Assess(sub Submission, rc RequestContext) Assessment {
	checks := []check{
		s.checkHoneypot,
		s.checkElapsed,
		s.checkChallenge,
		s.checkInteraction,
		s.checkContact,
		s.checkUserAgent,
		s.checkBlocklists,
		s.checkDisposable,
	}
	for _, c := range checks {
		if a, failed := c(sub, rc); failed {
			return a
		}
	}
	return accept()
}

func (s *Scorer) checkHoneypot(sub Submission, _ RequestContext) (Assessment, bool) {
	if strings.TrimSpace(sub.Honeypot) != "" {
		return reject(ReasonHoneypot, "hidden field filled", true), true
	}
	return Assessment{}, false
}

func (s *Scorer) checkElapsed(sub Submission, rc RequestContext) (Assessment, bool) {
	if sub.RenderedAt.IsZero() {
		return reject(ReasonTooFast, "missing form render time", true), true
	}
	elapsed := rc.ReceivedAt.Sub(sub.RenderedAt)
	if elapsed < s.cfg.MinElapsed {
		return reject(ReasonTooFast, "filled in "+elapsed.Round(time.Millisecond).String(), true), true
	}
	if s.cfg.MaxElapsed > 0 && elapsed > s.cfg.MaxElapsed {
		return reject(ReasonStaleForm, "form older than "+s.cfg.MaxElapsed.String(), false), true
	}
	return Assessment{}, false
}

func (s *Scorer) checkChallenge(sub Submission, rc RequestContext) (Assessment, bool) {
	if !s.challenge.Verify(strings.TrimSpace(sub.Challenge), rc.ReceivedAt) {
		return reject(ReasonChallenge, "token does not match the current window", true), true
	}
	return Assessment{}, false
}

func (s *Scorer) checkInteraction(sub Submission, _ RequestContext) (Assessment, bool) {
	if sub.Clicks < s.cfg.MinClicks && sub.Keystrokes < s.cfg.MinKeystrokes {
		return reject(ReasonNoInteraction, "no clicks or keystrokes recorded", true), true
	}
	return Assessment{}, false
}

func (s *Scorer) checkContact(sub Submission, _ RequestContext) (Assessment, bool) {
	if strings.TrimSpace(sub.Name) == "" {
		return reject(ReasonMissingName, "name is required", false), true
	}
	email := normalizeEmail(sub.Email)
	if email == "" {
		return reject(ReasonMissingEmail, "email is required", false), true
	}
	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return reject(ReasonInvalidEmail, "email length out of range", false), true
	}
	if !emailPattern.MatchString(email) {
		return reject(ReasonInvalidEmail, "email is malformed", false), true
	}
	return Assessment{}, false
}

func (s *Scorer) checkUserAgent(_ Submission, rc RequestContext) (Assessment, bool) {
	if len(rc.UserAgent) < s.cfg.MinUserAgentLength {
		return reject(ReasonUserAgent, "user agent missing or too short", true), true
	}
	ua := user_agent.New(rc.UserAgent)
	if ua.Bot() {
		name, _ := ua.Browser()
		return reject(ReasonUserAgent, "automated client "+name, true), true
	}
	return Assessment{}, false
}

func (s *Scorer) checkBlocklists(sub Submission, rc RequestContext) (Assessment, bool) {
	if _, ok := s.blockedIP[rc.IP]; ok {
		return reject(ReasonBlockedIP, "configured block", false), true
	}
	if _, ok := s.blockedEml[normalizeEmail(sub.Email)]; ok {
		return reject(ReasonBlockedEmail, "configured block", false), true
	}
	return Assessment{}, false
}

func (s *Scorer) checkDisposable(sub Submission, _ RequestContext) (Assessment, bool) {
	email := normalizeEmail(sub.Email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return Assessment{}, false
	}
	if _, ok := s.disposable[email[at+1:]]; ok {
		return reject(ReasonDisposableEmail, email[at+1:], false), true
	}
	return Assessment{}, false
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.ToLower(strings.TrimSpace(it))
		if it != "" {
			set[it] = struct{}{}
		}
	}
	return set
}

package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"olap_report/internal/report"
	"olap_report/internal/resto"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	sourceError = "ERROR"
	dateLayout  = "2006-01-02"
)

var (
	ErrNotAuthorized = errors.New("not authorized")
	ErrInvalidInput  = errors.New("invalid input")
)

type Credentials struct {
	Server   string `validate:"required,url"`
	Login    string `validate:"required"`
	Password string
}

// Request selects a report over the calendar range [From, To].
type Request struct {
	Type resto.ReportType `validate:"required"`
	From time.Time        `validate:"required"`
	To   time.Time        `validate:"required,gtefield=From"`
}

// key identifies a request within one session; a new login never shares an older session's call.
func (r Request) key(session resto.Session) string {
	return strings.Join([]string{session.BaseURL, session.Key, string(r.Type), r.From.Format(dateLayout), r.To.Format(dateLayout)}, "|")
}

// Service holds the session and dictionaries established by Login.
type Service struct {
	client   *resto.Client
	validate *validator.Validate
	group    singleflight.Group
	logger   *zap.Logger

	mu      sync.RWMutex
	session resto.Session
	dicts   resto.Dictionaries
}

func NewService(client *resto.Client, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		validate: validator.New(),
		logger:   logger.Named("reporting"),
		dicts:    resto.EmptyDictionaries(),
	}
}

// Login authenticates and loads the dictionaries. Any failure drops the previous session.
func (s *Service) Login(ctx context.Context, creds Credentials) error {
	creds.Server = strings.TrimSpace(creds.Server)
	creds.Login = strings.TrimSpace(creds.Login)

	if err := s.validate.Struct(creds); err != nil {
		s.reset()
		return fmt.Errorf("%w: %s", ErrInvalidInput, fieldErrors(err))
	}

	session, err := s.client.Authenticate(ctx, creds.Server, creds.Login, creds.Password)
	if err != nil {
		s.reset()
		return err
	}

	dicts := s.client.LoadDictionaries(ctx, session)

	s.mu.Lock()
	s.session = session
	s.dicts = dicts
	s.mu.Unlock()

	s.logger.Info("logged in",
		zap.String("server", session.BaseURL),
		zap.Int("stores", len(dicts.Stores)),
		zap.Int("accounts", len(dicts.Accounts)),
		zap.Int("conceptions", len(dicts.Conceptions)),
		zap.Int("products", len(dicts.Products)),
	)
	return nil
}

func (s *Service) reset() {
	s.mu.Lock()
	s.session = resto.Session{}
	s.dicts = resto.EmptyDictionaries()
	s.mu.Unlock()
}

func (s *Service) authorized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Valid()
}

// Dictionaries returns the dictionaries loaded at the last successful login.
func (s *Service) Dictionaries() resto.Dictionaries {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dicts
}

// FetchReport loads and shapes a report. Identical concurrent requests share one backend call.
//
// A failed aggregate report returns *resto.FetchError. A failed write-off request is not
// an error: the table comes back empty with Meta.Error set.
func (s *Service) FetchReport(ctx context.Context, req Request) (*report.Table, error) {
	s.mu.RLock()
	session, dicts := s.session, s.dicts
	s.mu.RUnlock()

	if !session.Valid() {
		return nil, ErrNotAuthorized
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, fieldErrors(err))
	}

	// The shared call outlives any single caller; the client timeouts still bound it.
	key := req.key(session)
	sharedCtx := context.WithoutCancel(ctx)
	resultChan := s.group.DoChan(key, func() (any, error) {
		return s.fetch(sharedCtx, session, dicts, req)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("report request shared", zap.String("report", string(req.Type)))
		}
		return res.Val.(*report.Table), nil
	}
}

func (s *Service) fetch(ctx context.Context, session resto.Session, dicts resto.Dictionaries, req Request) (*report.Table, error) {
	query, err := resto.BuildQuery(req.Type, req.From, req.To)
	if err != nil {
		return nil, err
	}

	meta := report.Meta{
		DateFrom: req.From.Format(dateLayout),
		DateTo:   req.To.Format(dateLayout),
		Source:   query.Endpoint,
	}

	if req.Type == resto.ReportWriteoffs {
		resp, err := s.client.FetchWriteoffs(ctx, session, query)
		if err != nil {
			s.logger.Warn("writeoff report failed", zap.Error(err))
			table := report.Empty(req.Type)
			meta.Source = sourceError
			meta.Error = err.Error()
			table.Meta = meta
			return table, nil
		}

		table := report.TransformWriteoffs(resp.Documents, dicts)
		meta.Revision = resp.Revision.String()
		meta.RowCount = len(resp.Documents)
		table.Meta = meta
		return table, nil
	}

	raw, err := s.client.FetchOLAP(ctx, session, query)
	if err != nil {
		return nil, err
	}

	table, err := report.Transform(req.Type, raw)
	if err != nil {
		return nil, err
	}
	meta.RowCount = len(raw)
	table.Meta = meta
	return table, nil
}

func fieldErrors(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
	}
	return strings.Join(fields, ", ")
}

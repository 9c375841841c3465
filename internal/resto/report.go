package resto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// FetchOLAP runs an aggregate query. Failures are returned as *FetchError.
func (c *Client) FetchOLAP(ctx context.Context, session Session, query Query) ([]AggregateRow, error) {
	if query.Method != http.MethodPost || query.Payload == nil {
		return nil, fmt.Errorf("%w: %q is not an aggregate report", ErrUnknownReportType, query.Report)
	}
	if !session.Valid() {
		return nil, &FetchError{Report: query.Report, Err: ErrNotAuthenticated}
	}

	logger := c.logger.With(zap.String("report", string(query.Report)))
	logger.Info("olap request", zap.String("endpoint", query.Endpoint), zap.Any("payload", query.Payload))

	resp, err := c.doPost(ctx, c.timeouts.Report, session.url(query.Endpoint), session.query(query.Params), query.Payload)
	if err != nil {
		logger.Error("olap request failed", zap.Error(err))
		fetchErr := &FetchError{Report: query.Report, Err: err}
		if resp != nil {
			fetchErr.StatusCode = resp.StatusCode()
			fetchErr.Details = errorDetails(resp.Body())
		}
		return nil, fetchErr
	}

	var body any
	if err := decodeBody(resp.Body(), &body); err != nil {
		logger.Error("olap response is not decodable", zap.Error(err))
		return nil, &FetchError{Report: query.Report, StatusCode: resp.StatusCode(), Err: err}
	}

	rows := aggregateRows(body)
	logger.Info("olap response", zap.Int("status", resp.StatusCode()), zap.Int("rows", len(rows)))
	return rows, nil
}

// FetchWriteoffs loads write-off documents for the query period.
func (c *Client) FetchWriteoffs(ctx context.Context, session Session, query Query) (WriteoffResponse, error) {
	if query.Report != ReportWriteoffs {
		return WriteoffResponse{}, fmt.Errorf("%w: %q is not a document report", ErrUnknownReportType, query.Report)
	}
	if !session.Valid() {
		return WriteoffResponse{}, ErrNotAuthenticated
	}

	logger := c.logger.With(zap.String("report", string(query.Report)))
	logger.Info("writeoff request", zap.String("endpoint", query.Endpoint), zap.Any("params", query.Params))

	resp, err := c.doGet(ctx, c.timeouts.Writeoff, session.url(query.Endpoint), session.query(query.Params))
	if err != nil {
		logger.Error("writeoff request failed", zap.Error(err))
		return WriteoffResponse{}, err
	}

	var body any
	if err := decodeBody(resp.Body(), &body); err != nil {
		logger.Error("writeoff response is not decodable", zap.Error(err))
		return WriteoffResponse{}, err
	}

	payload, skipped := writeoffResponse(body)
	if skipped > 0 {
		logger.Warn("malformed writeoff documents skipped", zap.Int("skipped", skipped))
	}
	logger.Info("writeoff documents loaded", zap.Int("documents", len(payload.Documents)))
	return payload, nil
}

// errorDetails decodes a JSON error body, falling back to the raw text.
func errorDetails(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var details any
	if err := json.Unmarshal(body, &details); err == nil {
		return details
	}
	return string(body)
}

// IsFetchError reports whether err carries a *FetchError.
func IsFetchError(err error) (*FetchError, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr, true
	}
	return nil, false
}

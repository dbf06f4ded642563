package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/amishk599/careerlens/internal/model"
	"github.com/amishk599/careerlens/internal/sse"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// streamEvent is the JSON payload of one progress event.
type streamEvent struct {
	Step   model.StepID     `json:"step"`
	Status model.StepStatus `json:"status"`
	Data   json.RawMessage  `json:"data,omitempty"`
}

// AnalyzeResume uploads file to /analyze-resume. A text/event-stream response
// is decoded event by event; a plain JSON response is treated as a stream
// holding only the terminal event.
func (c *Client) AnalyzeResume(ctx context.Context, file model.ResumeFile, onEvent func(model.StepEvent)) (*model.AnalysisResult, error) {
	if onEvent == nil {
		onEvent = func(model.StepEvent) {}
	}

	body, contentType, err := buildUpload(file)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", file.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-resume", body)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", file.Name, err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.streaming {
		req.Header.Set("Accept", "text/event-stream, application/json")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", file.Name, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp, "analyze "+file.Name)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "text/event-stream" {
		return c.readStream(resp.Body, file.Name, onEvent)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: read result: %w", file.Name, err)
	}
	result, err := decodeResult(raw)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: decode result: %w", file.Name, err)
	}
	onEvent(model.StepEvent{Step: model.StepDone, Status: model.StatusComplete})
	return result, nil
}

// readStream consumes progress events until the terminal "done" event.
// Malformed intermediate events are logged and skipped.
func (c *Client) readStream(body io.Reader, name string, onEvent func(model.StepEvent)) (*model.AnalysisResult, error) {
	r := sse.NewReader(body)
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("analyze %s: stream ended before final result", name)
		}
		if err != nil {
			return nil, fmt.Errorf("analyze %s: read stream: %w", name, err)
		}

		se, err := decodeEvent(ev.Data)
		if err != nil {
			c.logger.Warn("skipping malformed progress event", "file", name, "error", err)
			continue
		}

		if se.Step == model.StepDone && se.Status == model.StatusComplete {
			result, err := decodeResult(se.Data)
			if err != nil {
				return nil, fmt.Errorf("analyze %s: decode final result: %w", name, err)
			}
			onEvent(model.StepEvent{Step: se.Step, Status: se.Status})
			return result, nil
		}

		c.logger.Debug("progress event", "file", name, "step", se.Step, "status", se.Status)
		onEvent(model.StepEvent{Step: se.Step, Status: se.Status})
	}
}

func decodeEvent(payload string) (streamEvent, error) {
	var se streamEvent
	if err := json.Unmarshal([]byte(payload), &se); err != nil {
		return se, &model.StreamDecodeError{Payload: payload, Err: err}
	}
	if se.Step == "" {
		return se, &model.StreamDecodeError{Payload: payload, Err: errors.New("missing step")}
	}
	switch se.Status {
	case model.StatusProcessing, model.StatusComplete:
	default:
		return se, &model.StreamDecodeError{Payload: payload, Err: fmt.Errorf("unknown status %q", se.Status)}
	}
	return se, nil
}

// resultPayload distinguishes a missing keywords field from an empty list.
type resultPayload struct {
	Summary  string    `json:"summary"`
	Gaps     string    `json:"gaps"`
	Roadmap  string    `json:"roadmap"`
	Keywords *[]string `json:"keywords"`
}

// decodeResult decodes a final analysis payload. A missing or null payload,
// or one without a keywords field, is rejected.
func decodeResult(data []byte) (*model.AnalysisResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errors.New("missing result payload")
	}
	var p resultPayload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, err
	}
	if p.Keywords == nil {
		return nil, errors.New("result has no keywords field")
	}
	return &model.AnalysisResult{
		Summary:  p.Summary,
		Gaps:     p.Gaps,
		Roadmap:  p.Roadmap,
		Keywords: *p.Keywords,
	}, nil
}

// buildUpload encodes file as a multipart body under field "file", keeping
// the file's own content type (the service rejects non-PDF uploads).
func buildUpload(file model.ResumeFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	ct := file.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Name)))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

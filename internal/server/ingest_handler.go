package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"medichat/internal/ingest"

	"github.com/labstack/echo/v4"
)

type ingestRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleIngest accepts either raw text (JSON body or form field) or an
// uploaded file (multipart "file"). Exactly one source is processed per
// call; both or neither is a validation error.
func (s *Server) handleIngest(c echo.Context) error {
	text, fileData, fileName, err := readIngestInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	hasText := strings.TrimSpace(text) != ""
	hasFile := len(fileData) > 0

	switch {
	case hasText && hasFile:
		return c.JSON(http.StatusBadRequest, errorResponse{Error: ingest.ErrBothInputs.Error()})
	case !hasText && !hasFile:
		return c.JSON(http.StatusBadRequest, errorResponse{Error: ingest.ErrNoInput.Error()})
	}

	ctx := c.Request().Context()
	var result *ingest.Result
	if hasText {
		result, err = s.gw.Ingestor().IngestText(ctx, text, ingest.SourceText)
	} else if isPDF(fileName, fileData) {
		result, err = s.gw.Ingestor().IngestPDF(ctx, bytes.NewReader(fileData), int64(len(fileData)))
	} else {
		result, err = s.gw.Ingestor().IngestText(ctx, string(fileData), ingest.SourceText)
	}

	if err != nil {
		var ingErr *ingest.IngestionError
		if errors.As(err, &ingErr) && ingErr.Err == nil {
			// Pure validation failures (empty input and the like).
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

// readIngestInput pulls text and/or file content out of a JSON or
// multipart request body.
func readIngestInput(c echo.Context) (text string, fileData []byte, fileName string, err error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		var req ingestRequest
		if err := c.Bind(&req); err != nil {
			return "", nil, "", errors.New("invalid request body")
		}
		return req.Text, nil, "", nil
	}

	text = c.FormValue("text")

	fh, ferr := c.FormFile("file")
	if ferr != nil {
		// No file part is fine; text may carry the input.
		return text, nil, "", nil
	}
	f, ferr := fh.Open()
	if ferr != nil {
		return "", nil, "", errors.New("could not open uploaded file")
	}
	defer f.Close()

	fileData, ferr = io.ReadAll(f)
	if ferr != nil {
		return "", nil, "", errors.New("could not read uploaded file")
	}
	return text, fileData, fh.Filename, nil
}

func isPDF(name string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF"))
}

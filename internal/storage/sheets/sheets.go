// Package sheets appends captured leads to a Google Sheets worksheet using a
// service-account credential.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/neshkola/leadbot/core/logger"
	"github.com/neshkola/leadbot/internal/lead"
)

// Config describes where leads land. Spreadsheet is the document NAME as it
// appears in Drive; the ID is resolved once at startup.
type Config struct {
	CredentialsFile string
	Spreadsheet     string
	Worksheet       string
}

// Client appends lead rows to a single worksheet. It implements lead.Sink.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	worksheet     string
}

// New authenticates with the service-account key file and resolves the
// spreadsheet by name. It fails fast so a misconfigured credential is caught
// at startup rather than on the first lead.
func New(ctx context.Context, cfg Config) (*Client, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	jwt, err := google.JWTConfigFromJSON(data, sheetsapi.SpreadsheetsScope, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	httpClient := jwt.Client(ctx)

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	id, err := resolveSpreadsheetID(ctx, driveSvc, cfg.Spreadsheet)
	if err != nil {
		return nil, err
	}

	logger.SHEETS.Info("spreadsheet.resolved",
		slog.String("name", cfg.Spreadsheet),
		slog.String("spreadsheet_id", id),
		slog.String("worksheet", cfg.Worksheet),
	)

	return &Client{
		svc:           svc,
		spreadsheetID: id,
		worksheet:     cfg.Worksheet,
	}, nil
}

func resolveSpreadsheetID(ctx context.Context, svc *drive.Service, name string) (string, error) {
	q := fmt.Sprintf(
		"name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`),
	)
	list, err := svc.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("look up spreadsheet %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found or not shared with the service account", name)
	}
	return list.Files[0].Id, nil
}

// Append adds the lead as a new row at the bottom of the worksheet.
func (c *Client) Append(ctx context.Context, rec lead.Record) error {
	row := rec.Row()
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	start := time.Now()
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.worksheet, &sheetsapi.ValueRange{
			Values: [][]interface{}{values},
		}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		attrs := []slog.Attr{
			slog.String("worksheet", c.worksheet),
			slog.Duration("took", logger.Took(start)),
		}
		if apiErr, ok := err.(*googleapi.Error); ok {
			attrs = append(attrs, slog.Int("http_code", apiErr.Code))
		}
		logger.SHEETS.LogAttrs(ctx, slog.LevelError, "row.append.failed",
			append(attrs, slog.String("error", err.Error()))...)
		return fmt.Errorf("append row: %w", err)
	}

	logger.SHEETS.LogAttrs(ctx, slog.LevelInfo, "row.appended",
		slog.String("worksheet", c.worksheet),
		slog.Duration("took", logger.Took(start)),
	)
	return nil
}

package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ShehabAlj/shehab-crm/internal/models"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const (
	masterRange   = "CRM_Master!A2:F"
	incomingRange = "Leads!A2:E" // форма сайта
)

// Source абстрагирует таблицу: в тестах подменяется заглушкой.
type Source interface {
	Leads(ctx context.Context) ([]Lead, error)
	IncomingLeads(ctx context.Context) ([]Lead, error)
}

type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

func NewClient(ctx context.Context, spreadsheetID, serviceEmail, privateKey string) (*Client, error) {
	conf := &jwt.Config{
		Email:      serviceEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Leads читает основной лист CRM.
func (c *Client) Leads(ctx context.Context) ([]Lead, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, masterRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read master sheet: %w", err)
	}

	leads := make([]Lead, 0, len(resp.Values))
	for i, row := range resp.Values {
		leads = append(leads, parseMasterRow(row, i))
	}
	return leads, nil
}

// IncomingLeads читает лист с заявками с сайта.
func (c *Client) IncomingLeads(ctx context.Context) ([]Lead, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, incomingRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read incoming sheet: %w", err)
	}

	leads := make([]Lead, 0, len(resp.Values))
	for i, row := range resp.Values {
		leads = append(leads, parseIncomingRow(row, i))
	}
	return leads, nil
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

func cell(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

// parseMasterRow терпит кривые строки: пустые ячейки, мусор в статусе
// и валюте. Колонки: имя, тип проекта, прогрев, стадия, заметки, сумма.
func parseMasterRow(row []interface{}, index int) Lead {
	lead := Lead{
		// номер строки на листе (данные начинаются со второй)
		ID:          strconv.Itoa(index + 2),
		ClientName:  cell(row, 0),
		ProjectType: cell(row, 1),
		Notes:       cell(row, 4),
	}
	if lead.ClientName == "" {
		lead.ClientName = "Unknown Client"
	}
	if lead.ProjectType == "" {
		lead.ProjectType = "General Project"
	}

	lead.HeatLevel = models.HeatCold
	if h, ok := models.CanonicalHeat(cell(row, 2)); ok {
		lead.HeatLevel = h
	}
	lead.Status = models.StatusNew
	if st, ok := models.CanonicalStatus(cell(row, 3)); ok {
		lead.Status = st
	}

	if v, err := strconv.Atoi(nonDigits.ReplaceAllString(cell(row, 5), "")); err == nil {
		lead.Value = v
	}
	return lead
}

// Колонки заявки: имя, контакт, сообщение.
func parseIncomingRow(row []interface{}, index int) Lead {
	name := cell(row, 0)
	if name == "" {
		name = "Unknown"
	}
	return Lead{
		ID:          "incoming-" + strconv.Itoa(index),
		ClientName:  name,
		ProjectType: "Website Inquiry",
		HeatLevel:   models.HeatWarm,
		Status:      models.StatusNew,
		Notes:       strings.TrimSpace("Source: Website. Contact: " + cell(row, 1) + " " + cell(row, 2)),
	}
}

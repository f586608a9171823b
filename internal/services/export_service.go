package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/models"
	"github.com/leadscout/backend/internal/repositories"
)

// csvHeader is the fixed column order of per-campaign lead exports.
const csvHeader = "ID,URL,Source,Source Name,Title,Content,Relevance,Status,Pain Point,Author Profile Summary"

// ExportService produces the export surfaces: a full-state JSON dump and
// per-campaign CSV / XLSX lead sheets.
type ExportService struct {
	repo *repositories.StateRepo
	log  *zap.Logger
}

func NewExportService(repo *repositories.StateRepo, log *zap.Logger) *ExportService {
	return &ExportService{repo: repo, log: log}
}

// Dump returns the full application state for a JSON export.
func (s *ExportService) Dump() repositories.StateDump {
	return s.repo.Dump()
}

// CampaignCSV renders one campaign's leads as CSV.
func (s *ExportService) CampaignCSV(campaignID int) ([]byte, error) {
	if _, ok := s.repo.Campaign(campaignID); !ok {
		return nil, ErrNotFound
	}

	var sb strings.Builder
	sb.WriteString(csvHeader)
	sb.WriteString("\n")
	for _, p := range s.repo.Posts(campaignID) {
		fields := postFields(p)
		for i, f := range fields {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(csvEscape(f))
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

// CampaignXLSX renders one campaign's leads as a spreadsheet.
func (s *ExportService) CampaignXLSX(campaignID int) ([]byte, error) {
	if _, ok := s.repo.Campaign(campaignID); !ok {
		return nil, ErrNotFound
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := strings.Split(csvHeader, ",")
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return nil, err
	}

	for i, p := range s.repo.Posts(campaignID) {
		fields := postFields(p)
		row := make([]any, len(fields))
		for j, v := range fields {
			row[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func postFields(p models.Post) []string {
	return []string{
		fmt.Sprintf("%d", p.ID),
		p.URL,
		string(p.Source),
		p.SourceName,
		p.Title,
		p.Content,
		fmt.Sprintf("%d", p.Relevance),
		p.Status,
		p.PainPoint,
		p.AuthorSummary,
	}
}

// csvEscape wraps a field in quotes when it contains a comma, quote or
// newline, doubling any internal quotes.
func csvEscape(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

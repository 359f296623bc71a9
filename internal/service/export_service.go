package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cardshop/hotspot-api/internal/dto"
	"github.com/cardshop/hotspot-api/internal/models"
	"github.com/cardshop/hotspot-api/pkg/export"
	"github.com/cardshop/hotspot-api/pkg/lookup"
	"github.com/cardshop/hotspot-api/pkg/storage"
)

type configurationReader interface {
	List(ctx context.Context, filter models.ConfigurationFilter) ([]dto.ConfigurationSummary, *models.Pagination, error)
	Get(ctx context.Context, id int64, organization string) (*dto.ConfigurationDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(sheet export.Sheet) ([]byte, error)
}

var configurationCSVHeaders = []string{"id", "name", "project_name", "language", "timezone", "wifi_protected", "required_size", "required_gb", "media", "units"}

// ExportService renders configuration listings and sheets.
type ExportService struct {
	configs   configurationReader
	languages lookup.Enumeration
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(configs configurationReader, languages lookup.Enumeration, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{configs: configs, languages: languages, csv: csv, pdf: pdf, logger: logger}
}

// ConfigurationsCSV lists every configuration of organization with its current sizing.
func (s *ExportService) ConfigurationsCSV(ctx context.Context, organization string) ([]byte, error) {
	summaries, _, err := s.configs.List(ctx, models.ConfigurationFilter{Organization: organization})
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{Headers: configurationCSVHeaders}
	for _, summary := range summaries {
		detail, err := s.configs.Get(ctx, summary.ID, organization)
		if err != nil {
			return nil, err
		}
		row := map[string]string{
			"id":             strconv.FormatInt(detail.ID, 10),
			"name":           detail.DisplayName,
			"project_name":   detail.ProjectName,
			"language":       detail.Language,
			"timezone":       detail.Timezone,
			"wifi_protected": strconv.FormatBool(detail.WifiProtected),
			"required_size":  strconv.FormatInt(detail.RequiredSize, 10),
			"required_gb":    strconv.FormatInt(RequiredGB(detail.RequiredSize), 10),
		}
		if detail.MinMedia != nil {
			row["media"] = detail.MinMedia.Name
			row["units"] = strconv.FormatFloat(detail.MinMedia.Units, 'f', -1, 64)
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	out, err := s.csv.Render(dataset)
	if err != nil {
		return nil, fmt.Errorf("render configurations csv: %w", err)
	}
	s.logger.Debug("configurations csv rendered", zap.String("organization", organization), zap.Int("rows", len(dataset.Rows)))
	return out, nil
}

// ConfigurationSheet renders a one-document PDF summary of a configuration.
func (s *ExportService) ConfigurationSheet(ctx context.Context, id int64, organization string) ([]byte, string, error) {
	detail, err := s.configs.Get(ctx, id, organization)
	if err != nil {
		return nil, "", err
	}
	out, err := s.pdf.Render(s.sheetFor(detail))
	if err != nil {
		return nil, "", fmt.Errorf("render configuration sheet: %w", err)
	}
	return out, fmt.Sprintf("configuration-%d.pdf", detail.ID), nil
}

func (s *ExportService) sheetFor(detail *dto.ConfigurationDetail) export.Sheet {
	language := detail.Language
	if name := s.languages.Name(detail.Language); name != "" {
		language = fmt.Sprintf("%s (%s)", name, detail.Language)
	}
	wifi := "Open"
	if detail.WifiProtected {
		wifi = "Protected: " + *detail.WifiPassword
	}
	media, units := "none large enough", ""
	if detail.MinMedia != nil {
		media = detail.MinMedia.Name
		units = strconv.FormatFloat(detail.MinMedia.Units, 'f', -1, 64)
	}

	branding := make([]export.Field, 0, len(models.BrandingKinds))
	for _, kind := range models.BrandingKinds {
		value := ""
		if ref := detail.Branding(kind); ref != nil {
			value = storage.DisplayName(*ref)
		}
		branding = append(branding, export.Field{Label: strings.ToUpper(string(kind[:1])) + string(kind[1:]), Value: value})
	}

	return export.Sheet{
		Title:    detail.DisplayName,
		Subtitle: fmt.Sprintf("Configuration #%d, updated %s", detail.ID, detail.UpdatedOn.UTC().Format("2006-01-02 15:04 MST")),
		Sections: []export.Section{
			{Heading: "Hotspot", Fields: []export.Field{
				{Label: "Project name", Value: detail.ProjectName},
				{Label: "Language", Value: language},
				{Label: "Timezone", Value: detail.Timezone},
				{Label: "WiFi", Value: wifi},
				{Label: "Admin login", Value: detail.AdminAccount},
			}},
			{Heading: "Content", Fields: []export.Field{
				{Label: "Packages", Value: strings.Join(detail.ContentZims, ", ")},
				{Label: "KA-Lite", Value: strings.Join(detail.KaliteLanguages, ", ")},
				{Label: "WikiFundi", Value: strings.Join(detail.WikifundiLanguages, ", ")},
				{Label: "Aflatoun", Value: yesNo(detail.ContentAflatoun)},
				{Label: "EduPi", Value: yesNo(detail.ContentEdupi)},
				{Label: "EduPi resources", Value: deref(detail.ContentEdupiResources)},
			}},
			{Heading: "Branding", Fields: branding},
			{Heading: "Media", Fields: []export.Field{
				{Label: "Required size", Value: fmt.Sprintf("%.2f GB", float64(detail.RequiredSize)/float64(models.OneGB))},
				{Label: "Minimal media", Value: media},
				{Label: "Units", Value: units},
			}},
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

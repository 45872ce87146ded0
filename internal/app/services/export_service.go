package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Saewt/university-visitor-system/internal/app/models"
	"github.com/Saewt/university-visitor-system/internal/app/repositories"
	"github.com/Saewt/university-visitor-system/internal/pkg/apperrors"
	"github.com/Saewt/university-visitor-system/internal/pkg/helpers"
)

const (
	dataSheetName    = "Öğrenci Kayıtları"
	summarySheetName = "Özet İstatistikler"
)

var exportHeaders = []string{
	"ID", "Ad", "Soyad", "E-posta", "Telefon",
	"Lise", "Sıralama", "YKS Puanı", "YKS Türü",
	"Bölüm", "Tur İsteği", "Kayıt Tarihi",
}

// yksTypeLabels maps stored exam type values to display names
var yksTypeLabels = map[string]string{
	"SAYISAL": "Sayısal",
	"SOZEL":   "Sözel",
	"EA":      "Eşit Ağırlık",
	"DIL":     "Dil",
}

// ExportFile is a rendered workbook ready to be served as an attachment
type ExportFile struct {
	Filename string
	Content  []byte
}

// exportSummary holds the aggregates rendered on the summary sheet
type exportSummary struct {
	TotalStudents int
	TodayCount    int64
	TourRequests  int
	ByDepartment  []dtoCount
	ByType        []dtoCount
}

type dtoCount struct {
	Label string
	Count int64
}

// ExportService renders student records into spreadsheet workbooks
type ExportService struct {
	studentRepo *repositories.StudentRepository
	statsRepo   *repositories.StatsRepository
	now         func() time.Time
}

// NewExportService creates a new export service instance
func NewExportService(studentRepo *repositories.StudentRepository, statsRepo *repositories.StatsRepository) *ExportService {
	return &ExportService{
		studentRepo: studentRepo,
		statsRepo:   statsRepo,
		now:         helpers.TurkeyNow,
	}
}

// Excel renders the records matching the optional filters into a two-sheet
// workbook with a timestamped filename
func (s *ExportService) Excel(ctx context.Context, start, end *time.Time, departmentID *int64) (*ExportFile, error) {
	content, err := s.render(ctx, start, end, departmentID)
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename: fmt.Sprintf("ogrenci_kayitlari_%s.xlsx", s.now().Format("20060102_150405")),
		Content:  content,
	}, nil
}

// Daily renders a single calendar day's records. The date must be in
// YYYY-MM-DD form.
func (s *ExportService) Daily(ctx context.Context, dateStr string) (*ExportFile, error) {
	day, err := time.ParseInLocation("2006-01-02", dateStr, helpers.TurkeyTZ)
	if err != nil {
		return nil, apperrors.NewValidationError("date", "invalid date format, use YYYY-MM-DD")
	}

	start := helpers.DayStart(day)
	end := helpers.DayEnd(day)

	content, err := s.render(ctx, &start, &end, nil)
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename: fmt.Sprintf("ogrenci_kayitlari_%s.xlsx", dateStr),
		Content:  content,
	}, nil
}

func (s *ExportService) render(ctx context.Context, start, end *time.Time, departmentID *int64) ([]byte, error) {
	students, err := s.studentRepo.ListForExport(ctx, start, end, departmentID)
	if err != nil {
		return nil, err
	}

	todayCount, err := s.statsRepo.CountSince(ctx, helpers.DayStart(s.now()))
	if err != nil {
		return nil, err
	}

	summary := buildExportSummary(students, todayCount)

	buf, err := renderWorkbook(students, summary, s.now())
	if err != nil {
		return nil, fmt.Errorf("error rendering workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// buildExportSummary aggregates the exported rows for the summary sheet
func buildExportSummary(students []*models.Student, todayCount int64) exportSummary {
	summary := exportSummary{
		TotalStudents: len(students),
		TodayCount:    todayCount,
	}

	deptCounts := make(map[string]int64)
	typeCounts := make(map[string]int64)
	var deptOrder, typeOrder []string
	for _, student := range students {
		if student.WantsTour {
			summary.TourRequests++
		}

		name := unspecifiedDepartment
		if student.DepartmentName != nil && *student.DepartmentName != "" {
			name = *student.DepartmentName
		}
		if _, seen := deptCounts[name]; !seen {
			deptOrder = append(deptOrder, name)
		}
		deptCounts[name]++

		if student.YKSType != nil {
			key := string(*student.YKSType)
			if _, seen := typeCounts[key]; !seen {
				typeOrder = append(typeOrder, key)
			}
			typeCounts[key]++
		}
	}

	for _, name := range deptOrder {
		summary.ByDepartment = append(summary.ByDepartment, dtoCount{Label: name, Count: deptCounts[name]})
	}
	sort.SliceStable(summary.ByDepartment, func(i, j int) bool {
		return summary.ByDepartment[i].Count > summary.ByDepartment[j].Count
	})
	for _, key := range typeOrder {
		label := yksTypeLabels[key]
		if label == "" {
			label = key
		}
		summary.ByType = append(summary.ByType, dtoCount{Label: label, Count: typeCounts[key]})
	}

	return summary
}

func renderWorkbook(students []*models.Student, summary exportSummary, reportTime time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheetName); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheetName); err != nil {
		return nil, err
	}

	if err := writeDataSheet(f, students); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, summary, reportTime); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func writeDataSheet(f *excelize.File, students []*models.Student) error {
	border := []excelize.Border{
		{Type: "left", Style: 1},
		{Type: "right", Style: 1},
		{Type: "top", Style: 1},
		{Type: "bottom", Style: 1},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"366092"}},
		Font:      &excelize.Font{Color: "FFFFFF", Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return err
	}

	rowStyle, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return err
	}

	altRowStyle, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F2F2F2"}},
		Border: border,
	})
	if err != nil {
		return err
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(dataSheetName, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(dataSheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, student := range students {
		row := i + 2

		values := []interface{}{
			student.ID,
			student.FirstName,
			student.LastName,
			strOrEmpty(student.Email),
			strOrEmpty(student.Phone),
			strOrEmpty(student.HighSchool),
			intOrEmpty(student.Ranking),
			scoreOrEmpty(student.YKSScore),
			typeOrEmpty(student.YKSType),
			strOrEmpty(student.DepartmentName),
			boolLabel(student.WantsTour),
			student.CreatedAt.In(helpers.TurkeyTZ).Format("02.01.2006 15:04"),
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(dataSheetName, cell, value); err != nil {
				return err
			}
		}

		style := rowStyle
		if row%2 == 0 {
			style = altRowStyle
		}
		firstCell, _ := excelize.CoordinatesToCellName(1, row)
		lastCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), row)
		if err := f.SetCellStyle(dataSheetName, firstCell, lastCell, style); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(dataSheetName, "A", "L", 15); err != nil {
		return err
	}

	return f.SetPanes(dataSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummarySheet(f *excelize.File, summary exportSummary, reportTime time.Time) error {
	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return err
	}

	valueStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return err
	}

	type summaryRow struct {
		label   string
		value   interface{}
		section bool
	}

	rows := []summaryRow{
		{label: "Rapor Tarihi", value: reportTime.Format("02.01.2006 15:04"), section: true},
		{},
		{label: "Toplam Öğrenci Sayısı", value: summary.TotalStudents},
		{label: "Bugünkü Kayıtlar", value: summary.TodayCount},
		{label: "Tur İsteği", value: summary.TourRequests},
		{},
		{label: "Bölüm Dağılımı", section: true},
	}
	for _, dept := range summary.ByDepartment {
		rows = append(rows, summaryRow{label: "  - " + dept.Label, value: dept.Count})
	}
	rows = append(rows, summaryRow{}, summaryRow{label: "YKS Türü Dağılımı", section: true})
	for _, t := range summary.ByType {
		rows = append(rows, summaryRow{label: "  - " + t.Label, value: t.Count})
	}

	for i, row := range rows {
		if row.label == "" {
			continue
		}
		n := i + 1

		labelCell := fmt.Sprintf("A%d", n)
		valueCell := fmt.Sprintf("B%d", n)
		if err := f.SetCellValue(summarySheetName, labelCell, row.label); err != nil {
			return err
		}
		if row.value != nil {
			if err := f.SetCellValue(summarySheetName, valueCell, row.value); err != nil {
				return err
			}
		}

		if row.section {
			if err := f.SetCellStyle(summarySheetName, labelCell, labelCell, sectionStyle); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(summarySheetName, valueCell, valueCell, valueStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(summarySheetName, "A", "A", 35); err != nil {
		return err
	}
	return f.SetColWidth(summarySheetName, "B", "B", 15)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(v *int64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func scoreOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func typeOrEmpty(t *models.YKSType) string {
	if t == nil {
		return ""
	}
	return string(*t)
}

func boolLabel(b bool) string {
	if b {
		return "Evet"
	}
	return "Hayır"
}

package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Saewt/university-visitor-system/internal/app/models"
	"github.com/Saewt/university-visitor-system/internal/pkg/helpers"
)

func f64Ptr(v float64) *float64 { return &v }

func testStudents() []*models.Student {
	sayisal := models.YKSSayisal
	ranking := int64(1500)

	return []*models.Student{
		{
			ID:             2,
			FirstName:      "Ayşe",
			LastName:       "Demir",
			Email:          strPtr("ayse@example.com"),
			Phone:          strPtr("05551112233"),
			HighSchool:     strPtr("Ankara Fen Lisesi"),
			Ranking:        &ranking,
			YKSScore:       f64Ptr(512.5),
			YKSType:        &sayisal,
			DepartmentName: strPtr("Tıp"),
			WantsTour:      true,
			CreatedAt:      time.Date(2026, 4, 11, 10, 30, 0, 0, helpers.TurkeyTZ),
		},
		{
			ID:        1,
			FirstName: "Mehmet",
			LastName:  "Yılmaz",
			CreatedAt: time.Date(2026, 4, 10, 9, 0, 0, 0, helpers.TurkeyTZ),
		},
	}
}

func TestBuildExportSummary(t *testing.T) {
	summary := buildExportSummary(testStudents(), 3)

	assert.Equal(t, 2, summary.TotalStudents)
	assert.Equal(t, int64(3), summary.TodayCount)
	assert.Equal(t, 1, summary.TourRequests)

	require.Len(t, summary.ByDepartment, 2)
	labels := []string{summary.ByDepartment[0].Label, summary.ByDepartment[1].Label}
	assert.Contains(t, labels, "Tıp")
	assert.Contains(t, labels, "Belirtilmemiş")

	require.Len(t, summary.ByType, 1)
	assert.Equal(t, "Sayısal", summary.ByType[0].Label)
	assert.Equal(t, int64(1), summary.ByType[0].Count)
}

func TestRenderWorkbookLayout(t *testing.T) {
	students := testStudents()
	summary := buildExportSummary(students, 0)
	reportTime := time.Date(2026, 4, 11, 14, 45, 0, 0, helpers.TurkeyTZ)

	buf, err := renderWorkbook(students, summary, reportTime)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, []string{"Öğrenci Kayıtları", "Özet İstatistikler"}, sheets)

	rows, err := f.GetRows("Öğrenci Kayıtları")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, exportHeaders, rows[0])

	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "Ayşe", rows[1][1])
	assert.Equal(t, "Tıp", rows[1][9])
	assert.Equal(t, "Evet", rows[1][10])
	assert.Equal(t, "11.04.2026 10:30", rows[1][11])

	assert.Equal(t, "Mehmet", rows[2][1])
	assert.Equal(t, "Hayır", rows[2][10])

	summaryRows, err := f.GetRows("Özet İstatistikler")
	require.NoError(t, err)
	require.NotEmpty(t, summaryRows)

	assert.Equal(t, "Rapor Tarihi", summaryRows[0][0])
	assert.Equal(t, "11.04.2026 14:45", summaryRows[0][1])
	assert.Equal(t, "Toplam Öğrenci Sayısı", summaryRows[2][0])
	assert.Equal(t, "2", summaryRows[2][1])
}

func TestRenderWorkbookEmptyDataset(t *testing.T) {
	summary := buildExportSummary(nil, 0)
	buf, err := renderWorkbook(nil, summary, helpers.TurkeyNow())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Öğrenci Kayıtları")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, exportHeaders, rows[0])
}

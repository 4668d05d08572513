package catalog

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sopheaklaing/pharmacy/internal/database"
	"github.com/sopheaklaing/pharmacy/internal/database/dbtest"
	"github.com/sopheaklaing/pharmacy/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/api/medications", ListMedicationsHandler())
	app.Get("/api/medications/:id", GetMedicationHandler())
	app.Post("/api/medications", CreateMedicationHandler())
	app.Put("/api/medications/:id", UpdateMedicationHandler())
	app.Delete("/api/medications/:id", DeleteMedicationHandler())
	return app
}

func seedCatalog(t *testing.T) models.Category {
	t.Helper()

	cat := models.Category{Name: "Analgesics"}
	require.NoError(t, database.DB.Create(&cat).Error)

	level := 10
	meds := []models.Medication{
		{Name: "Paracetamol", Description: "pain relief", CategoryID: &cat.ID, ReorderLevel: &level},
		{Name: "Amoxicillin", Description: "antibiotic", CategoryID: &cat.ID, ReorderLevel: &level},
		{Name: "Panadol", Description: "pain relief", CategoryID: &cat.ID, ReorderLevel: &level},
	}
	for i := range meds {
		require.NoError(t, database.DB.Create(&meds[i]).Error)
	}

	// Paracetamol gets some stock so the others stay out_of_stock
	require.NoError(t, database.DB.Create(&models.StockLog{
		MedicationID: meds[0].ID, Type: models.StockLogIn, Quantity: 5,
	}).Error)

	return cat
}

func getJSON(t *testing.T, app *fiber.App, url string) []MedicationResponse {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var got []MedicationResponse
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &got))
	return got
}

func TestListMedications_Search(t *testing.T) {
	dbtest.Open(t)
	seedCatalog(t)
	app := newApp()

	got := getJSON(t, app, "/api/medications?search=pan")

	names := []string{}
	for _, m := range got {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{"Paracetamol", "Panadol"}, names)
}

func TestListMedications_StatusFilter(t *testing.T) {
	dbtest.Open(t)
	seedCatalog(t)
	app := newApp()

	got := getJSON(t, app, "/api/medications?status=low_stock")
	require.Len(t, got, 1)
	assert.Equal(t, "Paracetamol", got[0].Name)
	assert.Equal(t, 5, got[0].Quantity)
	assert.Equal(t, "low_stock", got[0].Status)
}

func TestListMedications_QuantityFromLedgerNotCounter(t *testing.T) {
	dbtest.Open(t)
	seedCatalog(t)
	app := newApp()

	// Corrupt the denormalized counter; the list must still report the
	// ledger sum.
	require.NoError(t, database.DB.Model(&models.Medication{}).
		Where("name = ?", "Paracetamol").
		Update("quantity", 999).Error)

	got := getJSON(t, app, "/api/medications?search=paracetamol")
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Quantity)
}

func TestCreateMedication_Validation(t *testing.T) {
	dbtest.Open(t)
	cat := seedCatalog(t)
	app := newApp()

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"category_id":` + itoa(cat.ID) + `}`},
		{"missing category", `{"name":"Ibuprofen"}`},
		{"unknown category", `{"name":"Ibuprofen","category_id":9999}`},
		{"negative reorder level", `{"name":"Ibuprofen","category_id":` + itoa(cat.ID) + `,"reorder_level":-1}`},
		{"bad expiry date", `{"name":"Ibuprofen","category_id":` + itoa(cat.ID) + `,"expiry_date":"31-01-2026"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/medications", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, 400, resp.StatusCode)
		})
	}
}

func TestCreateMedication_OK(t *testing.T) {
	dbtest.Open(t)
	cat := seedCatalog(t)
	app := newApp()

	expiry := time.Now().Add(20 * 24 * time.Hour).Format("2006-01-02")
	body := `{"name":"Ibuprofen","description":"anti-inflammatory","category_id":` + itoa(cat.ID) +
		`,"unit":"tablet","reorder_level":15,"expiry_date":"` + expiry + `"}`

	req := httptest.NewRequest("POST", "/api/medications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	var got MedicationResponse
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Ibuprofen", got.Name)
	assert.Equal(t, "Analgesics", got.Category)
	assert.Equal(t, 15, got.ReorderLevel)
	assert.Equal(t, 0, got.Quantity)
	assert.Equal(t, "out_of_stock", got.Status)
	assert.True(t, got.ExpiringSoon)
}

func TestDeleteMedication_RefusedWhileLedgerRowsExist(t *testing.T) {
	dbtest.Open(t)
	seedCatalog(t)
	app := newApp()

	// Paracetamol has a ledger entry, Amoxicillin does not
	var withStock, withoutStock models.Medication
	require.NoError(t, database.DB.First(&withStock, "name = ?", "Paracetamol").Error)
	require.NoError(t, database.DB.First(&withoutStock, "name = ?", "Amoxicillin").Error)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/medications/"+itoa(withStock.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	// The medication and its ledger survive the refused delete
	require.NoError(t, database.DB.First(&models.Medication{}, withStock.ID).Error)
	var count int64
	require.NoError(t, database.DB.Model(&models.StockLog{}).Where("medication_id = ?", withStock.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/medications/"+itoa(withoutStock.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.Error(t, database.DB.First(&models.Medication{}, withoutStock.ID).Error)
}

func TestUpdateMedication_LedgerReadFailureIs500(t *testing.T) {
	dbtest.Open(t)
	seedCatalog(t)
	app := newApp()

	var m models.Medication
	require.NoError(t, database.DB.First(&m, "name = ?", "Paracetamol").Error)

	// Break the ledger table so the post-update snapshot read fails
	require.NoError(t, database.DB.Migrator().DropTable(&models.StockLog{}))

	req := httptest.NewRequest("PUT", "/api/medications/"+itoa(m.ID), strings.NewReader(`{"description":"updated"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func itoa(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}

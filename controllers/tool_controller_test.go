package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"toolcrib/app"
	"toolcrib/db"
	"toolcrib/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type toolTestEnv struct {
	gdb    *gorm.DB
	router *gin.Engine
	admin  *models.User
}

func newToolTestEnv(t *testing.T) *toolTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{}, &models.ToolClass{}, &models.ToolModel{},
		&models.Tool{}, &models.Loan{}, &models.AuditLog{}, &models.CalibrationAlert{},
	))

	admin := &models.User{
		ID:           uuid.NewString(),
		Username:     "root",
		Email:        "root@plant.example",
		FullName:     "root",
		Role:         models.RoleAdmin,
		QRCode:       "TC-" + uuid.NewString(),
		PasswordHash: "x",
	}
	require.NoError(t, gdb.Create(admin).Error)

	env := &toolTestEnv{gdb: gdb, admin: admin}
	srv := &Srv{Repo: db.NewRepo(gdb)}
	tc := NewToolController(srv)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(app.CtxUserID, admin.ID)
		c.Set(app.CtxUsername, admin.Username)
		c.Set(app.CtxRole, admin.Role)
		c.Next()
	})
	r.POST("/api/tools", tc.CreateTool)
	r.PATCH("/api/tools/:id", tc.UpdateTool)
	env.router = r
	return env
}

func (e *toolTestEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *toolTestEnv) seedRefs(t *testing.T, calibDays int) (*models.ToolClass, *models.ToolModel) {
	t.Helper()
	class := &models.ToolClass{ID: uuid.NewString(), Name: "class-" + uuid.NewString()}
	require.NoError(t, e.gdb.Create(class).Error)
	m := &models.ToolModel{
		ID:                      uuid.NewString(),
		Name:                    "model-" + uuid.NewString(),
		RequiresCalibration:     calibDays > 0,
		CalibrationIntervalDays: calibDays,
	}
	require.NoError(t, e.gdb.Create(m).Error)
	return class, m
}

// quantity=0 是合法库存：工具建档先于到货
func TestCreateToolZeroQuantity(t *testing.T) {
	env := newToolTestEnv(t)
	class, model := env.seedRefs(t, 0)

	w := env.do(t, http.MethodPost, "/api/tools", gin.H{
		"code": "NEW-01", "name": "incoming drill",
		"classId": class.ID, "modelId": model.ID,
		"quantity": 0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Tool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 0, created.Quantity)
	assert.Equal(t, 0, created.AvailableQuantity)
	assert.Equal(t, models.ToolAvailable, created.Status)

	t.Run("missing quantity is still rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/tools", gin.H{
			"code": "NEW-02", "name": "no quantity",
			"classId": class.ID, "modelId": model.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateToolKeepsCalibrationDate(t *testing.T) {
	env := newToolTestEnv(t)
	class, model := env.seedRefs(t, 90)
	last := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	w := env.do(t, http.MethodPost, "/api/tools", gin.H{
		"code": "CAL-20", "name": "caliper",
		"classId": class.ID, "modelId": model.ID,
		"quantity": 2, "lastCalibrationDate": last,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Tool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.NextCalibrationDate)

	// 更新其它字段、不带校准日期：派生到期日不能被抹掉
	w = env.do(t, http.MethodPatch, "/api/tools/"+created.ID, gin.H{
		"code": "CAL-20", "name": "caliper",
		"classId": class.ID, "modelId": model.ID,
		"quantity": 2, "location": "crib B",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after models.Tool
	require.NoError(t, env.gdb.First(&after, "id = ?", created.ID).Error)
	assert.Equal(t, "crib B", after.Location)
	require.NotNil(t, after.LastCalibrationDate)
	assert.True(t, after.LastCalibrationDate.Equal(last))
	require.NotNil(t, after.NextCalibrationDate)
	assert.True(t, after.NextCalibrationDate.Equal(last.AddDate(0, 0, 90)))

	// 显式送新日期仍然生效
	newLast := last.AddDate(0, 1, 0)
	w = env.do(t, http.MethodPatch, "/api/tools/"+created.ID, gin.H{
		"code": "CAL-20", "name": "caliper",
		"classId": class.ID, "modelId": model.ID,
		"quantity": 2, "lastCalibrationDate": newLast,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, env.gdb.First(&after, "id = ?", created.ID).Error)
	require.NotNil(t, after.NextCalibrationDate)
	assert.True(t, after.NextCalibrationDate.Equal(newLast.AddDate(0, 0, 90)))
}

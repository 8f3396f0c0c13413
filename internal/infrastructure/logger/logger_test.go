package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := New(Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)
		l.Info("hello")
		require.NoError(t, l.Sync())
		assert.FileExists(t, path)
	})

	t.Run("unwritable output", func(t *testing.T) {
		_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "app.log")})
		assert.Error(t, err)
	})

	t.Run("tees extra cores", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		l, err := New(Config{Level: "error", Output: "stderr"}, core)
		require.NoError(t, err)
		l.Info("bridged")
		assert.Equal(t, 1, recorded.FilterMessage("bridged").Len())
	})
}

func TestL_EnrichesFromContext(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUserID(ctx, "user-7")
	ctx = WithCartOwner(ctx, "guest:abc")

	L(ctx).Info("cart updated")

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-7", fields["user_id"])
	assert.Equal(t, "guest:abc", fields["cart_owner"])
	assert.NotContains(t, fields, "trace_id")
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel zapcore.Level
	}{
		{"success", "/api/v1/products", http.StatusOK, zapcore.InfoLevel},
		{"client error", "/api/v1/products", http.StatusBadRequest, zapcore.WarnLevel},
		{"server error", "/api/v1/products", http.StatusInternalServerError, zapcore.ErrorLevel},
		{"health probe", "/health", http.StatusOK, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			router := gin.New()
			router.Use(func(c *gin.Context) {
				c.Set("request_id", "req-42")
				c.Next()
			})
			router.Use(GinMiddleware(zap.New(core), "/health"))
			router.GET(tt.path, func(c *gin.Context) {
				assert.Equal(t, "req-42", GetRequestID(c.Request.Context()))
				GetGinLogger(c).Debug("inside handler")
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			logs := recorded.FilterMessage("HTTP Request").All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.wantLevel, logs[0].Level)
			assert.Equal(t, "req-42", logs[0].ContextMap()["request_id"])
			assert.Equal(t, 1, recorded.FilterMessage("inside handler").Len())
		})
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) {
		return "SELECT * FROM orders WHERE phone = '01012345678' AND total_amount > 250.5 LIMIT 20", 1
	}

	t.Run("errors are logged without sql by default", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn)

		gl.Trace(context.Background(), time.Now(), query, errors.New("connection reset"))

		logs := recorded.FilterMessage("SQL error").All()
		require.Len(t, logs, 1)
		assert.NotContains(t, logs[0].ContextMap(), "sql")
		assert.Contains(t, logs[0].ContextMap(), "caller")
	})

	t.Run("record not found is ignored unless asked for", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		NewGormLogger(zap.New(core), gormlogger.Warn).
			Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)
		assert.Zero(t, recorded.Len())

		NewGormLogger(zap.New(core), gormlogger.Warn, WithRecordNotFound(true)).
			Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)
		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("slow queries warn with masked sql", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Millisecond), WithSQL(true))

		gl.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
		assert.Equal(t, "SELECT * FROM orders WHERE phone = ? AND total_amount > ? LIMIT ?", logs[0].ContextMap()["sql"])
	})

	t.Run("fast queries are quiet at warn", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		NewGormLogger(zap.New(core), gormlogger.Warn).Trace(context.Background(), time.Now(), query, nil)
		assert.Zero(t, recorded.Len())
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn).LogMode(gormlogger.Silent)

		gl.Trace(context.Background(), time.Now(), query, errors.New("x"))
		assert.Zero(t, recorded.Len())
	})
}

func TestRedactSQL(t *testing.T) {
	assert.Equal(t,
		`INSERT INTO "orders" ("full_name","phone") VALUES (?,?)`,
		RedactSQL(`INSERT INTO "orders" ("full_name","phone") VALUES ('Mona O''Neil','01012345678')`))
	assert.Equal(t, `SELECT * FROM "order_items" WHERE quantity = ?`, RedactSQL(`SELECT * FROM "order_items" WHERE quantity = 3`))
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}

package i18n

import (
	"reflect"
	"sync"
)

// Language type
type Language string

const (
	LangEN Language = "en"
	LangZH Language = "zh"
)

// Messages holds all translatable strings
type Messages struct {
	// System
	Starting          string
	ConfigLoaded      string
	ConfigLoadFailed  string
	InstanceID        string
	SystemMetricsInit string
	EngineServiceInit string
	ServerListening   string
	GRPCListening     string
	GRPCDisabled      string
	APIServerError    string
	GRPCServerError   string
	ShuttingDown      string
	ShutdownComplete  string

	// Journal
	UsingDBPath        string
	DBInitFailed       string
	DBMigrationsFailed string
	JournalEnabled     string
	JournalDisabled    string
	JournalWriteFailed string
	JournalClosed      string

	// Bot
	BotStarted         string
	BotStopped         string
	ConfigUpdated      string
	UnknownStrategyTag string
	AnalysisDecision   string
	BalanceInitialized string

	// Streaming
	WebSocketConnected    string
	WebSocketDisconnected string
	WebSocketUpgradeError string
}

var (
	currentLang Language = LangEN
	mu          sync.RWMutex
	messages    *Messages
)

// English messages
var messagesEN = Messages{
	// System
	Starting:          "Starting Quanturnic trading bot...",
	ConfigLoaded:      "Configuration loaded",
	ConfigLoadFailed:  "Failed to load configuration: %v",
	InstanceID:        "Instance ID: %s",
	SystemMetricsInit: "System metrics initialized",
	EngineServiceInit: "Engine service initialized (strategy=%s threshold=%v balance=%.2f)",
	ServerListening:   "HTTP server listening on :%s",
	GRPCListening:     "gRPC server listening on %s",
	GRPCDisabled:      "gRPC server disabled",
	APIServerError:    "HTTP server error: %v",
	GRPCServerError:   "gRPC server error: %v",
	ShuttingDown:      "Shutting down...",
	ShutdownComplete:  "Shutdown complete",

	// Journal
	UsingDBPath:        "Using journal database: %s",
	DBInitFailed:       "Failed to open journal database: %v",
	DBMigrationsFailed: "Failed to apply journal migrations: %v",
	JournalEnabled:     "Trade journal enabled",
	JournalDisabled:    "Trade journal disabled",
	JournalWriteFailed: "Journal write failed: %v",
	JournalClosed:      "Trade journal flushed and closed",

	// Bot
	BotStarted:         "🟢 [BOT] started",
	BotStopped:         "🔴 [BOT] stopped",
	ConfigUpdated:      "⚙️ [CONFIG] strategy=%s threshold=%v",
	UnknownStrategyTag: "⚠️ [CONFIG] unknown strategy %q, analyses will HOLD",
	AnalysisDecision:   "📈 [ANALYZE] strategy=%s points=%d action=%s balance=%.2f",
	BalanceInitialized: "Simulated balance initialized: %.2f",

	// Streaming
	WebSocketConnected:    "WebSocket client connected: %s",
	WebSocketDisconnected: "WebSocket client disconnected: %s",
	WebSocketUpgradeError: "WebSocket upgrade failed: %v",
}

// Chinese messages
var messagesZH = Messages{
	// System
	Starting:          "啟動 Quanturnic 交易機器人...",
	ConfigLoaded:      "設定已載入",
	ConfigLoadFailed:  "載入設定失敗：%v",
	InstanceID:        "實例 ID：%s",
	SystemMetricsInit: "系統指標已初始化",
	EngineServiceInit: "引擎服務已初始化（策略=%s 門檻=%v 餘額=%.2f）",
	ServerListening:   "HTTP 服務監聽於 :%s",
	GRPCListening:     "gRPC 服務監聽於 %s",
	GRPCDisabled:      "gRPC 服務已停用",
	APIServerError:    "HTTP 服務錯誤：%v",
	GRPCServerError:   "gRPC 服務錯誤：%v",
	ShuttingDown:      "正在關閉...",
	ShutdownComplete:  "已完成關閉",

	// Journal
	UsingDBPath:        "使用日誌資料庫：%s",
	DBInitFailed:       "開啟日誌資料庫失敗：%v",
	DBMigrationsFailed: "套用日誌資料庫遷移失敗：%v",
	JournalEnabled:     "交易日誌已啟用",
	JournalDisabled:    "交易日誌已停用",
	JournalWriteFailed: "寫入交易日誌失敗：%v",
	JournalClosed:      "交易日誌已寫入並關閉",

	// Bot
	BotStarted:         "🟢 [BOT] 已啟動",
	BotStopped:         "🔴 [BOT] 已停止",
	ConfigUpdated:      "⚙️ [CONFIG] 策略=%s 門檻=%v",
	UnknownStrategyTag: "⚠️ [CONFIG] 未知策略 %q，分析將回傳 HOLD",
	AnalysisDecision:   "📈 [ANALYZE] 策略=%s 點數=%d 動作=%s 餘額=%.2f",
	BalanceInitialized: "模擬餘額已初始化：%.2f",

	// Streaming
	WebSocketConnected:    "WebSocket 客戶端已連線：%s",
	WebSocketDisconnected: "WebSocket 客戶端已斷線：%s",
	WebSocketUpgradeError: "WebSocket 升級失敗：%v",
}

func init() {
	messages = &messagesEN
}

// SetLanguage sets the current language
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()

	currentLang = lang
	switch lang {
	case LangZH:
		messages = &messagesZH
	default:
		messages = &messagesEN
	}
}

// GetLanguage returns the current language
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// M returns the current messages
func M() *Messages {
	mu.RLock()
	defer mu.RUnlock()
	return messages
}

// Get returns specific message by key dynamically using reflection.
// Unknown keys are returned unchanged.
func Get(key string) string {
	msg := M()
	v := reflect.ValueOf(msg).Elem()
	f := v.FieldByName(key)
	if f.IsValid() && f.Kind() == reflect.String {
		return f.String()
	}
	return key
}

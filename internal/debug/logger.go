package debug

import (
	"log"
	"os"
)

var (
	enabled = false
)

func init() {
	// Leer la variable de entorno POINTTALLY_DEBUG_DASHBOARD
	enabled = os.Getenv("POINTTALLY_DEBUG_DASHBOARD") == "true"
	if enabled {
		log.Println("🐛 Debug Dashboard habilitado")
	}
}

// IsEnabled retorna si el dashboard de debugging está habilitado
func IsEnabled() bool {
	return enabled
}

// LogDebug envía un log de nivel debug al dashboard
func LogDebug(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "debug", message, metadata)
}

// LogInfo envía un log de nivel info al dashboard
func LogInfo(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "info", message, metadata)
}

// LogWarn envía un log de nivel warn al dashboard
func LogWarn(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "warn", message, metadata)
}

// LogError envía un log de nivel error al dashboard
func LogError(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "error", message, metadata)
}

// UpdateApiStatus envía el estado del backend y la base de datos al dashboard
func UpdateApiStatus(backendStatus, dbStatus string, dbConnections, dbMaxConnections int, version string) {
	if !enabled {
		return
	}

	var status ApiStatus
	status.Backend.Status = backendStatus
	status.Backend.Version = version

	status.Database.Status = dbStatus
	status.Database.Connections = dbConnections
	status.Database.MaxConnections = dbMaxConnections

	SendApiStatus(status)
}

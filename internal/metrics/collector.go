package metrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DBConnections 数据库连接池状态
var DBConnections = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "aiplugin_db_connections",
		Help: "数据库连接池连接数",
	},
	[]string{"state"},
)

// SystemCollector 定期采集连接池指标
type SystemCollector struct {
	db       *sql.DB
	interval time.Duration
}

// NewSystemCollector 创建采集器，interval <= 0 时使用 15s
func NewSystemCollector(db *sql.DB, interval time.Duration) *SystemCollector {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &SystemCollector{db: db, interval: interval}
}

// Run 阻塞运行直到 ctx 取消
func (c *SystemCollector) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.CollectOnce()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CollectOnce()
		}
	}
}

// CollectOnce 采集一次
func (c *SystemCollector) CollectOnce() {
	if c.db == nil {
		return
	}
	stats := c.db.Stats()
	DBConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	DBConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	DBConnections.WithLabelValues("idle").Set(float64(stats.Idle))
}

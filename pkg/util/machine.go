package util

import (
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
)

const machineIDAppKey = "projectforge-office-service"

var (
	machineID     string
	machineIDOnce sync.Once
)

// GetMachineID 获取当前机器的唯一标识符
// 优先使用 machineid 库（按应用做 HMAC 保护），失败时在 Linux 上读取主板序列号，
// 都失败时返回空字符串
func GetMachineID() string {
	machineIDOnce.Do(func() {
		if id, err := machineid.ProtectedID(machineIDAppKey); err == nil && id != "" {
			machineID = id
			return
		}
		if runtime.GOOS == "linux" {
			if b, err := os.ReadFile("/sys/class/dmi/id/board_serial"); err == nil {
				machineID = strings.TrimSpace(string(b))
			}
		}
	})
	return machineID
}

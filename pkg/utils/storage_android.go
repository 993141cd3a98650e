//go:build android

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// PrepareStorage 在打开 gdata 之前准备 Android 存档目录
//
// gdata 在 Android 上以 /data/data/{package}/ 为根目录，但不会创建子目录。
// 返回创建好的目录路径（用于日志）
func PrepareStorage() (string, error) {
	pkg, err := androidPackageName()
	if err != nil {
		return "", fmt.Errorf("failed to detect Android package: %w", err)
	}

	dir := filepath.Join("/data/data", pkg, "saves")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create saves directory %s: %w", dir, err)
	}

	marker := filepath.Join(dir, ".writable")
	if err := os.WriteFile(marker, nil, 0644); err != nil {
		return "", fmt.Errorf("saves directory %s is not writable: %w", dir, err)
	}
	_ = os.Remove(marker)

	return dir, nil
}

// androidPackageName 从 /proc/self/cmdline 读取包名
// cmdline 以 NUL 分隔，第一段即进程名（包名）
func androidPackageName() (string, error) {
	raw, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	name := string(bytes.TrimSpace(bytes.SplitN(raw, []byte{0}, 2)[0]))
	if name == "" {
		return "", fmt.Errorf("empty /proc/self/cmdline")
	}
	return name, nil
}

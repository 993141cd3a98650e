//go:build !android

package utils

// PrepareStorage 在打开 gdata 之前准备存档目录
// 非 Android 平台上 gdata 会自行创建目录，这里什么都不做
func PrepareStorage() (string, error) {
	return "", nil
}

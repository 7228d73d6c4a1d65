package fileurl

import (
	"os"
	"path/filepath"
)

// IsExist 判断文件或目录是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	return err == nil || !os.IsNotExist(err)
}

// IsDir 判断路径是否为目录
func IsDir(path string) bool {
	s, err := os.Stat(path)
	if err != nil {
		return false
	}
	return s.IsDir()
}

// CreatePath 创建文件所在的目录
func CreatePath(dst string, perm os.FileMode) error {
	dir := filepath.Dir(dst)
	if IsExist(dir) {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// GetAbsPath 将相对路径解析为相对于 root 的绝对路径，root 为空时使用工作目录
func GetAbsPath(path string, root string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}
	return filepath.Abs(filepath.Join(root, path))
}

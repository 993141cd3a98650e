package embedded

import (
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/levels.yaml":     {Data: []byte("levels: [\"1-1\"]\n")},
		"data/levels/1-1.yaml": {Data: []byte("id: \"1-1\"\n")},
		"data/levels/1-2.yaml": {Data: []byte("id: \"1-2\"\n")},
	}
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	Reset()
	defer Reset()

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(testFS())

	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}

	// nil 文件系统不算初始化
	Init(nil)
	if IsInitialized() {
		t.Error("Init(nil) 不应标记为已初始化")
	}
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	Reset()

	_, err := ReadFile("data/levels.yaml")
	if err == nil {
		t.Fatal("Expected error when calling ReadFile() before Init()")
	}
	if err.Error() != "embedded package not initialized, call Init() first" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestReadFile(t *testing.T) {
	Init(testFS())
	defer Reset()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "普通路径", path: "data/levels.yaml"},
		{name: "带 ./ 前缀", path: "./data/levels/1-1.yaml"},
		{name: "未知前缀", path: "assets/ball.png", wantErr: true},
		{name: "文件不存在", path: "data/levels/9-9.yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ReadFile(%q) expected error", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadFile(%q) error: %v", tt.path, err)
			}
			if len(data) == 0 {
				t.Errorf("ReadFile(%q) returned empty data", tt.path)
			}
		})
	}
}

func TestExistsAndGlob(t *testing.T) {
	Init(testFS())
	defer Reset()

	if !Exists("data/levels/1-2.yaml") {
		t.Error("Exists() should return true for embedded file")
	}
	if Exists("data/levels/3-1.yaml") {
		t.Error("Exists() should return false for missing file")
	}

	matches, err := Glob("data/levels/*.yaml")
	if err != nil {
		t.Fatalf("Glob error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Glob matched %d files, expected 2", len(matches))
	}
}

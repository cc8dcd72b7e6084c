package web

import "embed"

// Static 是内置前端页面，磁盘上没有 static_dir 时使用。
//
//go:embed static
var Static embed.FS

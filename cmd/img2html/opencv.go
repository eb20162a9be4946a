//go:build opencv

package main

import (
	_ "github.com/gardar/img2html/pkg/segment/opencv"
)

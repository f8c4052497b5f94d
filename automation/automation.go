// Package automation drives a real browser against the supplier portal
// to pull the current wholesale policy export.
package automation

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
)

// NoData is returned when the portal reports nothing to download.
const NoData = "NO_DATA"

// DownloadPolicyCSV logs into the supplier portal and downloads the
// policy CSV into saveDir. Returns the saved path, or NoData when the
// portal has no export ready.
func DownloadPolicyCSV(portalURL, userID, password, saveDir string) (string, error) {
	if _, err := os.Stat(saveDir); os.IsNotExist(err) {
		if err := os.MkdirAll(saveDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create save dir: %w", err)
		}
	}

	// Leakless(false) keeps security software from quarantining the
	// helper binary.
	u := launcher.New().
		Headless(false).
		Leakless(false).
		MustLaunch()

	browser := rod.New().ControlURL(u).MustConnect()
	defer browser.MustClose()

	log.Printf("Opening portal %s ...", portalURL)
	page := browser.MustPage(portalURL)
	page.MustWaitStable()

	if err := rod.Try(func() {
		page.MustElement("[name='userid']").MustInput(userID)
	}); err != nil {
		return "", fmt.Errorf("login userid field not found: %w", err)
	}
	if err := rod.Try(func() {
		page.MustElement("[name='userpsw']").MustInput(password)
	}); err != nil {
		return "", fmt.Errorf("login password field not found: %w", err)
	}

	if loginBtn, err := page.ElementR("input, button, a, img", "登录"); err == nil {
		loginBtn.MustClick()
	} else {
		page.KeyActions().Press(input.Enter).MustDo()
	}
	page.MustWaitStable()

	log.Println("Navigating to the policy export page...")
	if err := rod.Try(func() {
		page.MustElement("a[href*='PolicyExport']").MustClick()
	}); err != nil {
		return "", fmt.Errorf("policy export menu not found (login may have failed): %w", err)
	}
	page.MustWaitStable()

	wait := browser.MustWaitDownload()
	go page.MustHandleDialog()

	clicked := false
	for _, sel := range []string{"input[type='button']", "button", "a"} {
		if el, err := page.ElementR(sel, "导出"); err == nil {
			el.MustClick()
			clicked = true
			break
		}
	}
	if !clicked {
		return "", fmt.Errorf("export button not found")
	}

	log.Println("Waiting for the download...")
	var fileData []byte
	resultChan := make(chan string)

	go func() {
		defer func() { _ = recover() }()
		fileData = wait()
		resultChan <- "downloaded"
	}()
	go func() {
		for i := 0; i < 60; i++ {
			time.Sleep(500 * time.Millisecond)
			if body, err := page.Element("body"); err == nil {
				text, _ := body.Text()
				if strings.Contains(text, "暂无数据") {
					resultChan <- "no_data"
					return
				}
			}
		}
	}()

	select {
	case res := <-resultChan:
		if res == "no_data" {
			return NoData, nil
		}
	case <-time.After(60 * time.Second):
		return "", fmt.Errorf("portal download timed out")
	}

	if len(fileData) == 0 {
		return "", fmt.Errorf("downloaded file is empty")
	}

	destPath := filepath.Join(saveDir, "POLICY.CSV")
	if err := os.WriteFile(destPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	log.Printf("Download complete: %s", destPath)
	return destPath, nil
}

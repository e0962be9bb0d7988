// uploadclient posts a batch of voice memos to a running service and prints
// the review candidates it returns. Useful for smoke-testing a deployment
// without the review UI.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

func main() {
	serverAddr := flag.String("server", "http://localhost:8080", "Service base URL")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		log.Fatal("Usage: uploadclient [-server URL] file.wav [file2.mp3 ...]")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", path, err)
		}

		fw, err := mw.CreateFormFile("files", filepath.Base(path))
		if err != nil {
			log.Fatalf("Failed to create form file: %v", err)
		}
		n, err := io.Copy(fw, f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		log.Printf("Attached %s (%d bytes)", filepath.Base(path), n)
	}
	if err := mw.Close(); err != nil {
		log.Fatalf("Failed to finalize request body: %v", err)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Post(*serverAddr+"/v1/uploads", mw.FormDataContentType(), &buf)
	if err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Upload rejected: %s %s", resp.Status, body)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

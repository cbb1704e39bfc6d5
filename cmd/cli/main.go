// Command cli is a thin HTTP client for the equipment statistics API.
//
// Usage:
//
//	cli -server http://localhost:8080 upload data.csv
//	cli validate data.xlsx
//	cli summary [dataset-id]
//	cli datasets
//	cli report <dataset-id> [-o report.pdf]
//	cli cleanup
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "API server base URL")
	output := flag.String("o", "", "output file for report downloads")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	client := &client{
		base: *server,
		http: &http.Client{Timeout: 60 * time.Second},
	}

	var err error
	switch args[0] {
	case "upload":
		err = requireArg(args, 2, "upload needs a file path", func() error {
			return client.uploadFile("/api/equipment/upload", args[1])
		})
	case "validate":
		err = requireArg(args, 2, "validate needs a file path", func() error {
			return client.uploadFile("/api/equipment/validate", args[1])
		})
	case "summary":
		path := "/api/equipment/summary"
		if len(args) > 1 {
			path += "/" + args[1]
		}
		err = client.getJSON(path)
	case "datasets":
		err = client.getJSON("/api/datasets")
	case "report":
		err = requireArg(args, 2, "report needs a dataset ID", func() error {
			return client.downloadReport(args[1], *output)
		})
	case "status":
		err = client.getJSON("/api/history/status")
	case "cleanup":
		err = client.postJSON("/api/history/cleanup", nil)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cli [-server URL] [-o FILE] <upload|validate|summary|datasets|report|status|cleanup> [args]")
}

func requireArg(args []string, n int, msg string, fn func() error) error {
	if len(args) < n {
		return fmt.Errorf("%s", msg)
	}
	return fn()
}

type client struct {
	base string
	http *http.Client
}

func (c *client) uploadFile(path, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	resp, err := c.http.Post(c.base+path, writer.FormDataContentType(), &body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printJSON(resp)
}

func (c *client) getJSON(path string) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printJSON(resp)
}

func (c *client) postJSON(path string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	resp, err := c.http.Post(c.base+path, "application/json", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return printJSON(resp)
}

func (c *client) downloadReport(id, output string) error {
	resp, err := c.http.Get(c.base + "/api/reports/pdf/" + id)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return printJSON(resp)
	}

	if output == "" {
		output = fmt.Sprintf("equipment_report_%s.pdf", id)
	}
	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", output, n)
	return nil
}

func printJSON(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, data, "", "  ") == nil {
		data = pretty.Bytes()
	}
	fmt.Println(string(data))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

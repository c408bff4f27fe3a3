package storage

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"brewbook/internal/recipe"
)

// fakeS3 serves the subset of the S3 REST API the backend uses from memory.
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string][]byte
	pageSize int
	failPut  bool
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func respond(status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body)), Header: header}
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	query := req.URL.Query()
	if req.Method == http.MethodGet && query.Get("list-type") == "2" {
		return f.list(query.Get("prefix"), query.Get("continuation-token")), nil
	}

	switch req.Method {
	case http.MethodHead:
		body, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, "", nil), nil
		}
		return respond(http.StatusOK, "", http.Header{"Content-Length": {strconv.Itoa(len(body))}}), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, "<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>", http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return respond(http.StatusOK, string(body), http.Header{"Content-Length": {strconv.Itoa(len(body))}}), nil
	case http.MethodPut:
		if f.failPut {
			return respond(http.StatusInternalServerError, "<Error><Code>InternalError</Code><Message>boom</Message></Error>", http.Header{"Content-Type": {"application/xml"}}), nil
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if strings.Contains(req.Header.Get("Content-Encoding"), "aws-chunked") {
			if body, err = decodeAWSChunked(body); err != nil {
				return nil, err
			}
		}
		f.objects[key] = body
		return respond(http.StatusOK, "", http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, "", nil), nil
	}
	return respond(http.StatusNotImplemented, "", nil), nil
}

func (f *fakeS3) list(prefix, token string) *http.Response {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	start := 0
	if token != "" {
		start, _ = strconv.Atoi(token)
	}
	end := len(keys)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult>`)
	if end < len(keys) {
		fmt.Fprintf(&b, "<IsTruncated>true</IsTruncated><NextContinuationToken>%d</NextContinuationToken>", end)
	} else {
		b.WriteString("<IsTruncated>false</IsTruncated>")
	}
	for _, k := range keys[start:end] {
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2024-01-01T00:00:00Z</LastModified></Contents>", k, len(f.objects[k]))
	}
	b.WriteString("</ListBucketResult>")
	return respond(http.StatusOK, b.String(), http.Header{"Content-Type": {"application/xml"}})
}

// decodeAWSChunked strips aws-chunked framing: <hex-size>[;ext]\r\n<data>\r\n ... 0\r\n[trailers].
func decodeAWSChunked(body []byte) ([]byte, error) {
	r := bufio.NewReader(bytes.NewReader(body))
	var out bytes.Buffer
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeField := strings.TrimSpace(strings.SplitN(line, ";", 2)[0])
		size, err := strconv.ParseInt(sizeField, 16, 64)
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, r, size); err != nil {
			return nil, err
		}
		if _, err := r.Discard(2); err != nil {
			return nil, err
		}
	}
}

func newTestS3(t *testing.T, fake *fakeS3, prefix string) *S3 {
	t.Helper()
	awsCfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIA", "SECRET", ""),
	}
	return newS3FromAWS(awsCfg, S3Config{
		Bucket:    "brews",
		Endpoint:  "http://mock.s3.local",
		Prefix:    prefix,
		PathStyle: true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		o.RetryMaxAttempts = 1
	})
}

func TestS3WriteReadListDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	fake.pageSize = 1
	store := newTestS3(t, fake, "recipes/")

	for _, slug := range []string{"stout", "citra-pale", "amber"} {
		if err := store.Write(ctx, slug, []byte("<recipe>"+slug+"</recipe>\n")); err != nil {
			t.Fatalf("Write %s: %v", slug, err)
		}
	}
	fake.objects["recipes/readme.txt"] = []byte("ignored")
	fake.objects["recipes/archive/old.xml"] = []byte("ignored")
	fake.objects["other/x.xml"] = []byte("ignored")

	if _, ok := fake.objects["recipes/stout.xml"]; !ok {
		t.Fatalf("expected prefixed key, have %v", fake.objects)
	}

	slugs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(slugs, []string{"amber", "citra-pale", "stout"}) {
		t.Fatalf("unexpected slugs %v", slugs)
	}

	data, err := store.Read(ctx, "amber")
	if err != nil || string(data) != "<recipe>amber</recipe>\n" {
		t.Fatalf("Read = %q, %v", data, err)
	}

	existed, err := store.Delete(ctx, "amber")
	if err != nil || !existed {
		t.Fatalf("Delete = %v, %v", existed, err)
	}
	existed, err = store.Delete(ctx, "amber")
	if err != nil || existed {
		t.Fatalf("second Delete = %v, %v", existed, err)
	}
	if _, err := store.Read(ctx, "amber"); !errors.Is(err, recipe.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestS3FailedPutKeepsPreviousObject(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := newTestS3(t, fake, "")
	if err := store.Write(ctx, "pale", []byte("v1")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	fake.failPut = true
	if err := store.Write(ctx, "pale", []byte("v2")); err == nil {
		t.Fatal("expected write error")
	}
	data, err := store.Read(ctx, "pale")
	if err != nil || string(data) != "v1" {
		t.Fatalf("expected previous object, got %q, %v", data, err)
	}
}

func TestNewS3RequiresBucket(t *testing.T) {
	if _, err := NewS3(context.Background(), S3Config{}); err == nil {
		t.Fatal("expected error without bucket")
	}
}

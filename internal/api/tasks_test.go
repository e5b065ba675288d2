package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockServer creates a test HTTP server for mocking API responses.
func mockServer(handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(handler)
}

func testClient(server *httptest.Server) *Client {
	client := NewClient("test-token")
	client.SetBaseURL(server.URL)
	client.SetRateLimit(nil)
	return client
}

func TestNewClient(t *testing.T) {
	token := "test-token"
	client := NewClient(token)

	if client.accessToken != token {
		t.Errorf("expected token %q, got %q", token, client.accessToken)
	}

	if client.baseURL != "https://api.todoist.com/api/v1" {
		t.Errorf("unexpected base URL: %s", client.baseURL)
	}

	if client.limiter == nil {
		t.Error("expected a default rate limiter")
	}
}

func TestGetTasks(t *testing.T) {
	tests := []struct {
		name       string
		filter     TaskFilter
		response   PaginatedResponse[Task]
		statusCode int
		wantErr    bool
	}{
		{
			name:   "successful request",
			filter: TaskFilter{},
			response: PaginatedResponse[Task]{
				Results: []Task{
					{
						ID:        "123",
						Content:   "Test task",
						ProjectID: "456",
						Priority:  1,
					},
				},
			},
			statusCode: http.StatusOK,
			wantErr:    false,
		},
		{
			name:       "unauthorized",
			filter:     TaskFilter{},
			statusCode: http.StatusUnauthorized,
			wantErr:    true,
		},
		{
			name: "filter by project",
			filter: TaskFilter{
				ProjectID: "789",
			},
			response: PaginatedResponse[Task]{
				Results: []Task{
					{
						ID:        "124",
						Content:   "Project task",
						ProjectID: "789",
					},
				},
			},
			statusCode: http.StatusOK,
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockServer(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET request, got %s", r.Method)
				}

				authHeader := r.Header.Get("Authorization")
				if authHeader != "Bearer test-token" {
					t.Errorf("expected Bearer token, got %q", authHeader)
				}

				if tt.filter.ProjectID != "" {
					if r.URL.Query().Get("project_id") != tt.filter.ProjectID {
						t.Errorf("expected project_id %q in query", tt.filter.ProjectID)
					}
				}

				w.WriteHeader(tt.statusCode)
				json.NewEncoder(w).Encode(tt.response)
			})
			defer server.Close()

			tasks, err := testClient(server).GetTasks(context.Background(), tt.filter)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(tasks) != len(tt.response.Results) {
				t.Errorf("expected %d tasks, got %d", len(tt.response.Results), len(tasks))
			}

			if len(tasks) > 0 && tasks[0].Content != tt.response.Results[0].Content {
				t.Errorf("expected content %q, got %q", tt.response.Results[0].Content, tasks[0].Content)
			}
		})
	}
}

func TestGetTasksFollowsCursor(t *testing.T) {
	pages := 0
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		pages++
		var resp PaginatedResponse[Task]
		switch r.URL.Query().Get("cursor") {
		case "":
			next := "page-2"
			resp = PaginatedResponse[Task]{Results: []Task{{ID: "1"}}, NextCursor: &next}
		case "page-2":
			resp = PaginatedResponse[Task]{Results: []Task{{ID: "2"}, {ID: "3"}}}
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
		json.NewEncoder(w).Encode(resp)
	})
	defer server.Close()

	tasks, err := testClient(server).GetTasks(context.Background(), TaskFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 2 {
		t.Errorf("expected 2 page requests, got %d", pages)
	}
	if len(tasks) != 3 || tasks[2].ID != "3" {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/missing" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		http.Error(w, "task not found", http.StatusNotFound)
	})
	defer server.Close()

	_, err := testClient(server).GetTask(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsNotFound(err) {
		t.Errorf("expected wrapped 404, got %v", err)
	}
	apiErr, ok := IsAPIError(err)
	if !ok || apiErr.Message != "task not found" {
		t.Errorf("unexpected api error: %+v", apiErr)
	}
}

func TestUpdateTask(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/tasks/42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
			return
		}
		if body["due_datetime"] != "2024-01-08T09:00:00" {
			t.Errorf("unexpected due_datetime %v", body["due_datetime"])
		}
		if body["duration"] != float64(45) || body["duration_unit"] != "minute" {
			t.Errorf("unexpected duration %v %v", body["duration"], body["duration_unit"])
		}
		if _, ok := body["content"]; ok {
			t.Error("unset fields must be omitted")
		}

		json.NewEncoder(w).Encode(Task{ID: "42", Content: "Write report"})
	})
	defer server.Close()

	task, err := testClient(server).UpdateTask(context.Background(), "42", UpdateTaskRequest{
		DueDatetime:  String("2024-01-08T09:00:00"),
		Duration:     Int(45),
		DurationUnit: String("minute"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "42" {
		t.Errorf("expected task 42, got %q", task.ID)
	}
}

func TestCreateAndCloseTask(t *testing.T) {
	var closed string
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tasks":
			var req CreateTaskRequest
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(Task{ID: "new", Content: req.Content, ProjectID: req.ProjectID})
		case "/tasks/new/close":
			closed = "new"
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer server.Close()

	client := testClient(server)
	ctx := context.Background()

	task, err := client.CreateTask(ctx, CreateTaskRequest{Content: "Buy milk", ProjectID: "home"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Content != "Buy milk" || task.ProjectID != "home" {
		t.Errorf("unexpected task %+v", task)
	}

	if err := client.CloseTask(ctx, task.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed != "new" {
		t.Error("close endpoint was not called")
	}
}

func TestRequestHonoursContext(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("x")
	client.SetBaseURL(server.URL)
	if _, err := client.GetTasks(ctx, TaskFilter{}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

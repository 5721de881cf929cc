package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"siteledger.app/api/handlers"
	"siteledger.app/api/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/api/auth/signup", handlers.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", handlers.Login).Methods("POST")
	r.HandleFunc("/api/auth/apple", handlers.AppleSignIn).Methods("POST")
	r.HandleFunc("/api/auth/google", handlers.GoogleSignIn).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/auth/me", handlers.Me).Methods("GET")
	api.HandleFunc("/auth/profile", handlers.UpdateProfile).Methods("PUT")
	api.HandleFunc("/auth/change-password", handlers.ChangePassword).Methods("POST")
	api.HandleFunc("/auth/change-email", handlers.ChangeEmail).Methods("POST")
	api.HandleFunc("/auth/account", handlers.DeleteAccount).Methods("DELETE")
	api.HandleFunc("/config/keys", handlers.GetConfigKeys).Methods("GET")

	// Jobs
	jobs := handlers.NewJobHandler()
	api.HandleFunc("/jobs", jobs.GetJobs).Methods("GET")
	api.HandleFunc("/jobs/{id}", jobs.GetJob).Methods("GET")

	// Timesheets (clock in/out is worker-facing)
	timesheets := handlers.NewTimesheetHandler()
	api.HandleFunc("/timesheets", timesheets.GetTimesheets).Methods("GET")
	api.HandleFunc("/timesheets/active", timesheets.GetActiveTimesheet).Methods("GET")
	api.HandleFunc("/timesheets/clock-in", timesheets.ClockIn).Methods("POST")
	api.HandleFunc("/timesheets/clock-out", timesheets.ClockOut).Methods("POST")
	api.HandleFunc("/timesheets", timesheets.CreateTimesheet).Methods("POST")
	api.HandleFunc("/jobs/{jobID}/timesheets", timesheets.GetJobTimesheets).Methods("GET")

	// Receipts (workers may submit against assigned jobs)
	receipts := handlers.NewReceiptHandler()
	api.HandleFunc("/receipts", receipts.GetReceipts).Methods("GET")
	api.HandleFunc("/receipts", receipts.CreateReceipt).Methods("POST")
	api.HandleFunc("/jobs/{jobID}/receipts", receipts.GetJobReceipts).Methods("GET")

	// Documents
	documents := handlers.NewDocumentHandler()
	api.HandleFunc("/documents", documents.GetDocuments).Methods("GET")

	// Notifications (per-user feed)
	notifications := handlers.NewNotificationHandler()
	api.HandleFunc("/notifications", notifications.GetNotifications).Methods("GET")
	api.HandleFunc("/notifications/read-all", notifications.MarkAllRead).Methods("PUT")
	api.HandleFunc("/notifications/{id}/read", notifications.MarkRead).Methods("PUT")
	api.HandleFunc("/notifications/{id}", notifications.DeleteNotification).Methods("DELETE")

	// AI insights (per-user storage)
	insights := handlers.NewInsightHandler()
	api.HandleFunc("/insights", insights.GetInsights).Methods("GET")
	api.HandleFunc("/insights", insights.SaveInsight).Methods("POST")
	api.HandleFunc("/insights/{id}", insights.DeleteInsight).Methods("DELETE")

	// Worker payment history (a worker can read their own)
	workerPayments := handlers.NewWorkerPaymentHandler()
	api.HandleFunc("/worker-payments/worker/{workerID}", workerPayments.GetWorkerPaymentHistory).Methods("GET")

	// Workers can list the jobs assigned to them
	workers := handlers.NewWorkerHandler()
	api.HandleFunc("/workers/{id}/assigned-jobs", workers.GetAssignedJobs).Methods("GET")

	// =====================================================
	// Owner Routes (require owner role)
	// =====================================================
	owner := api.PathPrefix("/").Subrouter()
	owner.Use(middleware.RequireOwner)

	owner.HandleFunc("/auth/reset-all-data", handlers.ResetAllData).Methods("POST")

	owner.HandleFunc("/jobs", jobs.CreateJob).Methods("POST")
	owner.HandleFunc("/jobs/{id}", jobs.UpdateJob).Methods("PUT")
	owner.HandleFunc("/jobs/{id}", jobs.DeleteJob).Methods("DELETE")
	owner.HandleFunc("/jobs/{id}/assign-worker", jobs.AssignWorker).Methods("POST")
	owner.HandleFunc("/jobs/{id}/unassign-worker/{workerId}", jobs.UnassignWorker).Methods("DELETE")

	owner.HandleFunc("/timesheets/{id}", timesheets.UpdateTimesheet).Methods("PUT")
	owner.HandleFunc("/timesheets/{id}", timesheets.DeleteTimesheet).Methods("DELETE")

	owner.HandleFunc("/receipts/{id}", receipts.UpdateReceipt).Methods("PUT")
	owner.HandleFunc("/receipts/{id}", receipts.DeleteReceipt).Methods("DELETE")

	owner.HandleFunc("/workers", workers.GetWorkers).Methods("GET")
	owner.HandleFunc("/workers", workers.CreateWorker).Methods("POST")
	owner.HandleFunc("/workers/{id}", workers.UpdateWorker).Methods("PUT")
	owner.HandleFunc("/workers/{id}", workers.DeleteWorker).Methods("DELETE")
	owner.HandleFunc("/workers/{id}/reset-password", workers.ResetWorkerPassword).Methods("POST")
	owner.HandleFunc("/workers/{id}/send-invite", workers.SendInvite).Methods("POST")

	owner.HandleFunc("/documents", documents.CreateDocument).Methods("POST")
	owner.HandleFunc("/documents/{id}", documents.UpdateDocument).Methods("PUT")
	owner.HandleFunc("/documents/{id}", documents.DeleteDocument).Methods("DELETE")

	alerts := handlers.NewAlertHandler()
	owner.HandleFunc("/alerts", alerts.GetAlerts).Methods("GET")
	owner.HandleFunc("/alerts/unread-count", alerts.GetUnreadCount).Methods("GET")
	owner.HandleFunc("/alerts/read-all", alerts.MarkAllRead).Methods("PUT")
	owner.HandleFunc("/alerts/{id}/read", alerts.MarkRead).Methods("PUT")
	owner.HandleFunc("/alerts/{id}", alerts.DeleteAlert).Methods("DELETE")

	owner.HandleFunc("/worker-payments", workerPayments.GetWorkerPayments).Methods("GET")
	owner.HandleFunc("/worker-payments", workerPayments.CreateWorkerPayment).Methods("POST")
	owner.HandleFunc("/worker-payments/{id}", workerPayments.UpdateWorkerPayment).Methods("PUT")
	owner.HandleFunc("/worker-payments/{id}", workerPayments.DeleteWorkerPayment).Methods("DELETE")

	clientPayments := handlers.NewClientPaymentHandler()
	owner.HandleFunc("/jobs/{jobID}/payments", clientPayments.GetJobClientPayments).Methods("GET")
	owner.HandleFunc("/jobs/{jobID}/payments", clientPayments.CreateClientPayment).Methods("POST")
	owner.HandleFunc("/jobs/{jobID}/payments/{id}", clientPayments.DeleteClientPayment).Methods("DELETE")

	export := handlers.NewExportHandler()
	owner.HandleFunc("/export/jobs", export.ExportJobs).Methods("GET")
	owner.HandleFunc("/export/receipts", export.ExportReceipts).Methods("GET")
	owner.HandleFunc("/export/timesheets", export.ExportTimesheets).Methods("GET")
	owner.HandleFunc("/export/summary", export.ExportSummary).Methods("GET")
	owner.HandleFunc("/export/all", export.ExportAll).Methods("GET")

	return r
}

package http

import (
	"net/http"

	"opd-booking/internal/delivery/http/handler"
	"opd-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	appointmentHandler  *handler.AppointmentHandler
	doctorHandler       *handler.DoctorHandler
	prescriptionHandler *handler.PrescriptionHandler
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	doctorHandler *handler.DoctorHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		appointmentHandler:  appointmentHandler,
		doctorHandler:       doctorHandler,
		prescriptionHandler: prescriptionHandler,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Slot allocation
	api.HandleFunc("/check-availability", r.appointmentHandler.CheckAvailability).Methods(http.MethodPost)
	api.HandleFunc("/book-appointment", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)

	// Doctor directory (read-only)
	api.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)

	// Appointment ledger reads
	api.HandleFunc("/appointments", r.appointmentHandler.SearchAppointments).Methods(http.MethodGet)
	api.HandleFunc("/doctor/appointments", r.appointmentHandler.ListDoctorAppointments).Methods(http.MethodGet)

	// Prescriptions
	api.HandleFunc("/doctor/prescribe", r.prescriptionHandler.SavePrescription).Methods(http.MethodPost)
	api.HandleFunc("/doctor/prescriptions/{appointmentId}", r.prescriptionHandler.GetPrescription).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

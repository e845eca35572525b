package realtime

const (
	EventBookingPriceUpdated    = "booking:price_updated"
	EventBookingAgreementSigned = "booking:agreement_signed"
	EventBookingStatusUpdated   = "booking:status_updated"
	EventExecutionUpdated       = "execution:updated"
	EventNotificationNew        = "notification:new"

	EventAnnouncementActivated = "announcement:activated"
	EventAnnouncementCompleted = "announcement:completed"
	EventAnnouncementDeleted   = "announcement:deleted"
)

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloess-chatbot-be/internal/constant"
	"cloess-chatbot-be/internal/dto"
	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/pkg/logger"
	"cloess-chatbot-be/internal/repository/specification"
	"cloess-chatbot-be/internal/repository/unitofwork"
	"cloess-chatbot-be/pkg/events"
)

const analyticsModule = "AnalyticsService"

// EventPublisher is satisfied by the NATS publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// InteractionObserver receives tracking outcomes; optional.
type InteractionObserver interface {
	ObserveInteraction(kind, status string)
}

type IAnalyticsService interface {
	TrackSession(ctx context.Context, ip, userAgent string) (*entity.VisitorSession, error)
	// QueueInteraction never returns an error to the caller; failures are logged.
	QueueInteraction(ctx context.Context, ip, userAgent string, request *dto.TrackInteractionRequest) bool
	RecordInteraction(ctx context.Context, msg *dto.PublishInteractionMessage) error
	VisitorReport(ctx context.Context, limit int) (*dto.VisitorReportListResponse, error)
	EngagementReport(ctx context.Context, productId *int) (*dto.ProductEngagementListResponse, error)
	CountryReport(ctx context.Context) (*dto.CountryReportListResponse, error)
	Logs(ctx context.Context, request *dto.LogListRequest) ([]*dto.LogListResponse, error)
}

type analyticsService struct {
	uowFactory     unitofwork.RepositoryFactory
	publisher      IPublisherService
	geolocation    IGeolocationService
	eventPublisher EventPublisher
	observer       InteractionObserver
	logger         logger.ILogger
	logPath        string
	now            func() time.Time
}

func NewAnalyticsService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	geolocation IGeolocationService,
	eventPublisher EventPublisher,
	observer InteractionObserver,
	log logger.ILogger,
	logPath string,
) IAnalyticsService {
	return &analyticsService{
		uowFactory:     uowFactory,
		publisher:      publisher,
		geolocation:    geolocation,
		eventPublisher: eventPublisher,
		observer:       observer,
		logger:         log,
		logPath:        logPath,
		now:            time.Now,
	}
}

// TrackSession gets or creates the visitor for ip. New visitors are
// geolocated; returning ones get last_seen and visit_count bumped.
func (s *analyticsService) TrackSession(ctx context.Context, ip, userAgent string) (*entity.VisitorSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, created, err := s.upsertVisitor(ctx, uow, ip, userAgent)
	if err != nil {
		return nil, err
	}

	if created && s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: constant.EventVisitorSessionTracked,
			Data: map[string]interface{}{
				"visitor_id": session.Id,
				"country":    session.Country,
				"city":       session.City,
			},
			OccurredAt: s.now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn(analyticsModule, "Failed to publish visitor event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return session, nil
}

func (s *analyticsService) upsertVisitor(ctx context.Context, uow unitofwork.UnitOfWork, ip, userAgent string) (*entity.VisitorSession, bool, error) {
	repo := uow.VisitorSessionRepository()
	now := s.now()

	existing, err := repo.FindOne(ctx, specification.ByIPAddress{IP: ip})
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		existing.LastSeen = now
		existing.VisitCount++
		if userAgent != "" {
			existing.UserAgent = userAgent
		}
		if err := repo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	loc, raw := s.geolocation.Locate(ctx, ip)
	session := &entity.VisitorSession{
		IPAddress:  ip,
		Country:    loc.Country,
		City:       loc.City,
		Region:     loc.Region,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		UserAgent:  userAgent,
		GeoPayload: raw,
		FirstSeen:  now,
		LastSeen:   now,
		VisitCount: 1,
	}
	if err := repo.Create(ctx, session); err != nil {
		return nil, false, err
	}
	return session, true, nil
}

func (s *analyticsService) QueueInteraction(ctx context.Context, ip, userAgent string, request *dto.TrackInteractionRequest) bool {
	msg := dto.PublishInteractionMessage{
		IPAddress:       ip,
		UserAgent:       userAgent,
		ProductId:       request.ProductId,
		InteractionType: request.InteractionType,
		PageUrl:         request.PageUrl,
		SessionId:       request.SessionId,
		OccurredAt:      s.now(),
	}
	if request.DurationMs != nil {
		msg.DurationMs = *request.DurationMs
	}

	payload, err := json.Marshal(msg)
	if err == nil {
		err = s.publisher.Publish(ctx, payload)
	}
	if err != nil {
		s.logger.Error(analyticsModule, "Failed to queue interaction", map[string]interface{}{
			"product_id": request.ProductId,
			"error":      err.Error(),
		})
		s.observe(request.InteractionType, "error")
		return false
	}
	return true
}

// RecordInteraction folds one queued event into the visitor's totals inside
// a transaction.
func (s *analyticsService) RecordInteraction(ctx context.Context, msg *dto.PublishInteractionMessage) error {
	kind := entity.InteractionType(msg.InteractionType)
	if !kind.Valid() {
		s.observe(msg.InteractionType, "invalid")
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	visitor, _, err := s.upsertVisitor(ctx, uow, msg.IPAddress, msg.UserAgent)
	if err != nil {
		return fmt.Errorf("track visitor: %w", err)
	}

	repo := uow.ProductInteractionRepository()
	interaction, err := repo.FindOne(ctx, specification.ByVisitorAndProduct{
		VisitorSessionId: visitor.Id,
		ProductId:        msg.ProductId,
	})
	if err != nil {
		return err
	}

	at := msg.OccurredAt
	if at.IsZero() {
		at = s.now()
	}

	if interaction == nil {
		interaction = &entity.ProductInteraction{VisitorSessionId: visitor.Id, ProductId: msg.ProductId}
		interaction.Record(kind, msg.DurationMs, at)
		if err := repo.Create(ctx, interaction); err != nil {
			return err
		}
	} else if interaction.Record(kind, msg.DurationMs, at) {
		if err := repo.Update(ctx, interaction); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.observe(msg.InteractionType, "success")
	return nil
}

func (s *analyticsService) observe(kind, status string) {
	if s.observer != nil {
		s.observer.ObserveInteraction(kind, status)
	}
}

func (s *analyticsService) VisitorReport(ctx context.Context, limit int) (*dto.VisitorReportListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.VisitorSessionRepository().VisitorReport(ctx, limit)
	if err != nil {
		return nil, err
	}

	res := &dto.VisitorReportListResponse{Users: make([]*dto.VisitorReportResponse, 0, len(rows))}
	for _, r := range rows {
		res.Users = append(res.Users, &dto.VisitorReportResponse{
			IPAddress:          r.IPAddress,
			Country:            r.Country,
			City:               r.City,
			FirstVisit:         r.FirstSeen,
			LastVisit:          r.LastSeen,
			TotalHoverTime:     r.TotalHoverTime,
			TotalViews:         r.TotalViews,
			TotalClicks:        r.TotalClicks,
			ProductsInteracted: r.ProductsInteracted,
		})
	}
	res.Count = len(res.Users)
	return res, nil
}

func (s *analyticsService) EngagementReport(ctx context.Context, productId *int) (*dto.ProductEngagementListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ProductInteractionRepository().EngagementReport(ctx, productId)
	if err != nil {
		return nil, err
	}

	res := &dto.ProductEngagementListResponse{Products: make([]*dto.ProductEngagementResponse, 0, len(rows))}
	for _, r := range rows {
		res.Products = append(res.Products, &dto.ProductEngagementResponse{
			ProductId:      r.ProductId,
			UniqueUsers:    r.UniqueUsers,
			TotalHoverTime: r.TotalHoverTime,
			TotalViews:     r.TotalViews,
			TotalClicks:    r.TotalClicks,
			AvgHoverTime:   r.AvgHoverTime,
		})
	}
	res.Count = len(res.Products)
	return res, nil
}

func (s *analyticsService) CountryReport(ctx context.Context) (*dto.CountryReportListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.VisitorSessionRepository().CountryReport(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.CountryReportListResponse{Countries: make([]*dto.CountryReportResponse, 0, len(rows))}
	for _, r := range rows {
		res.Countries = append(res.Countries, &dto.CountryReportResponse{
			Country:        r.Country,
			UserCount:      r.UserCount,
			TotalHoverTime: r.TotalHoverTime,
			TotalViews:     r.TotalViews,
			TotalClicks:    r.TotalClicks,
		})
	}
	res.Count = len(res.Countries)
	return res, nil
}

func (s *analyticsService) Logs(ctx context.Context, request *dto.LogListRequest) ([]*dto.LogListResponse, error) {
	entries, err := logger.ReadLogs(s.logPath, strings.ToUpper(request.Level), request.Module, request.Limit, request.Offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, &dto.LogListResponse{
			Id:        e.Id,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			Timestamp: e.Timestamp,
			Details:   e.Details,
		})
	}
	return res, nil
}

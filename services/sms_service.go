package services

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/utils"
	"disasterlink-backend/utils/logger"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// SMS command grammar understood from victims in the field:
//
//	LOC <lat> <lon> [battery%]   location ping
//	STATUS <OK|HELP|CRITICAL>    triage status update
//	REPORT <type> [description]  incident report at last known location
//	SHELTER                      reply with nearest open shelters
//	REG <name>                   set the sender's name
//
// Anything else gets the help text back. Senders are registered on first
// contact, so a bare ping from an unknown number creates the victim record.
type SMSService struct {
	victims   *VictimService
	incidents repository.IncidentRepositoryInterface
	shelters  *ShelterService
	outbox    repository.OutboxRepositoryInterface
	notifier  Dispatcher
	logger    logger.Logger
}

func NewSMSService(victims *VictimService, incidents repository.IncidentRepositoryInterface, shelters *ShelterService, outbox repository.OutboxRepositoryInterface, notifier Dispatcher, log logger.Logger) *SMSService {
	return &SMSService{
		victims:   victims,
		incidents: incidents,
		shelters:  shelters,
		outbox:    outbox,
		notifier:  notifier,
		logger:    log,
	}
}

const helpText = "Commands: LOC <lat> <lon> [battery], STATUS <OK|HELP|CRITICAL>, REPORT <type> [details], SHELTER, REG <name>"

// ReceiveWebhook handles a raw Telnyx inbound-message webhook. The payload
// shape is deep and mostly irrelevant, so the two fields that matter are
// plucked with gjson instead of declaring the whole envelope.
func (s *SMSService) ReceiveWebhook(ctx context.Context, payload []byte) (string, error) {
	from := gjson.GetBytes(payload, "data.payload.from.phone_number").String()
	text := gjson.GetBytes(payload, "data.payload.text").String()

	if from == "" || text == "" {
		return "", fmt.Errorf("webhook payload missing sender or text: %w", models.ErrInvalidState)
	}

	return s.HandleInbound(ctx, from, text)
}

// HandleInbound processes one inbound SMS and queues the reply. The reply
// body is also returned for synchronous callers and tests.
func (s *SMSService) HandleInbound(ctx context.Context, from, text string) (string, error) {
	victim, err := s.victims.GetOrRegister(ctx, from)
	if err != nil {
		return "", err
	}

	reply := s.dispatch(ctx, victim, strings.TrimSpace(text))

	if err := s.notifier.Send(ctx, []string{victim.PhoneNumber}, reply); err != nil {
		s.logger.Warnf("Failed to queue reply to %s: %v", victim.PhoneNumber, err)
	}

	return reply, nil
}

func (s *SMSService) dispatch(ctx context.Context, victim *models.Victim, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return helpText
	}

	switch strings.ToUpper(fields[0]) {
	case "LOC":
		return s.handleLocation(ctx, victim, fields[1:])
	case "STATUS":
		return s.handleStatus(ctx, victim, fields[1:])
	case "REPORT":
		return s.handleReport(ctx, victim, fields[1:])
	case "SHELTER":
		return s.handleShelter(ctx, victim)
	case "REG":
		return s.handleRegister(ctx, victim, fields[1:])
	default:
		return helpText
	}
}

func (s *SMSService) handleLocation(ctx context.Context, victim *models.Victim, args []string) string {
	if len(args) < 2 {
		return "Usage: LOC <lat> <lon> [battery]"
	}

	lat, errLat := strconv.ParseFloat(args[0], 64)
	lon, errLon := strconv.ParseFloat(args[1], 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return "Could not read coordinates. Usage: LOC <lat> <lon> [battery]"
	}

	req := &models.UpdateVictimLocationRequest{Latitude: lat, Longitude: lon}
	if len(args) >= 3 {
		if battery, err := strconv.Atoi(strings.TrimSuffix(args[2], "%")); err == nil && battery >= 0 && battery <= 100 {
			req.Battery = battery
		}
	}

	if _, err := s.victims.UpdateLocation(ctx, victim.PhoneNumber, req); err != nil {
		s.logger.Errorf("Location update for %s failed: %v", victim.PhoneNumber, err)
		return "Location update failed, please resend."
	}

	return fmt.Sprintf("Location received (%.5f, %.5f). Stay where you are if safe.", lat, lon)
}

func (s *SMSService) handleStatus(ctx context.Context, victim *models.Victim, args []string) string {
	if len(args) == 0 {
		return "Usage: STATUS <OK|HELP|CRITICAL>"
	}

	var status models.VictimStatus
	switch strings.ToUpper(args[0]) {
	case "OK":
		status = models.VictimStatusActive
	case "HELP":
		status = models.VictimStatusNeedsHelp
	case "CRITICAL":
		status = models.VictimStatusCritical
	default:
		return "Usage: STATUS <OK|HELP|CRITICAL>"
	}

	if _, err := s.victims.UpdateStatus(ctx, victim.PhoneNumber, status); err != nil {
		s.logger.Errorf("Status update for %s failed: %v", victim.PhoneNumber, err)
		return "Status update failed, please resend."
	}

	if status == models.VictimStatusActive {
		return "Glad you are safe. Send STATUS HELP or STATUS CRITICAL if that changes."
	}
	return fmt.Sprintf("Status recorded as %s. Send LOC <lat> <lon> so rescuers can find you.", status)
}

func (s *SMSService) handleReport(ctx context.Context, victim *models.Victim, args []string) string {
	if len(args) == 0 {
		return "Usage: REPORT <type> [details]"
	}
	if !victim.HasLocation() {
		return "Send LOC <lat> <lon> first so the report can be placed."
	}

	incident := &models.Incident{
		IncidentID: utils.GenerateUUID(),
		Type:       parseIncidentType(args[0]),
		Latitude:   victim.Latitude,
		Longitude:  victim.Longitude,
		Severity:   models.IncidentSeverityMedium,
		Status:     models.IncidentStatusReported,
		ReportedBy: victim.PhoneNumber,
	}
	if len(args) > 1 {
		incident.Description = strings.Join(args[1:], " ")
	}

	if _, err := s.incidents.CreateIncident(ctx, incident); err != nil {
		s.logger.Errorf("Incident report from %s failed: %v", victim.PhoneNumber, err)
		return "Report failed, please resend."
	}

	return fmt.Sprintf("%s reported at your location. A team will be dispatched if confirmed.", incident.Type)
}

func (s *SMSService) handleShelter(ctx context.Context, victim *models.Victim) string {
	if !victim.HasLocation() {
		return "Send LOC <lat> <lon> first so shelters near you can be found."
	}

	nearest, err := s.shelters.NearestShelters(ctx, *victim.Latitude, *victim.Longitude, 3)
	if err != nil {
		s.logger.Errorf("Shelter lookup for %s failed: %v", victim.PhoneNumber, err)
		return "Shelter lookup failed, please resend."
	}
	if len(nearest) == 0 {
		return "No open shelter found near you. Keep your phone on, help is being arranged."
	}

	var b strings.Builder
	b.WriteString("Nearest shelters:")
	for _, n := range nearest {
		fmt.Fprintf(&b, " %s (%.1f km, %s);", n.Shelter.Name, n.DistanceKm, n.Shelter.Address)
	}
	return strings.TrimSuffix(b.String(), ";")
}

func (s *SMSService) handleRegister(ctx context.Context, victim *models.Victim, args []string) string {
	if len(args) == 0 {
		return "Usage: REG <name>"
	}

	name := strings.Join(args, " ")
	if err := s.victims.victims.UpdateVictimFields(ctx, victim.PhoneNumber, map[string]interface{}{
		"name": name,
	}); err != nil {
		s.logger.Errorf("Name update for %s failed: %v", victim.PhoneNumber, err)
		return "Registration failed, please resend."
	}

	return fmt.Sprintf("Registered as %s. %s", name, helpText)
}

func parseIncidentType(raw string) models.IncidentType {
	switch strings.ToUpper(raw) {
	case "FLOOD":
		return models.IncidentTypeFlood
	case "FIRE":
		return models.IncidentTypeFire
	case "COLLAPSE":
		return models.IncidentTypeBuildingCollapse
	case "LANDSLIDE":
		return models.IncidentTypeLandslide
	case "MEDICAL":
		return models.IncidentTypeMedicalEmergency
	default:
		return models.IncidentTypeOther
	}
}

// NextOutbound pops the oldest queued message for the SMS gateway poller and
// marks it sent. A message claimed by a concurrent poller is skipped.
func (s *SMSService) NextOutbound(ctx context.Context) (*models.OutboxMessage, error) {
	for attempt := 0; attempt < 3; attempt++ {
		msg, err := s.outbox.NextQueued(ctx)
		if err != nil {
			return nil, err
		}

		if err := s.outbox.MarkSent(ctx, msg.MessageID, msg.Version); err != nil {
			s.logger.Debugf("Outbox message %s claimed elsewhere: %v", msg.MessageID, err)
			continue
		}

		msg.Status = models.OutboxStatusSent
		return msg, nil
	}

	return nil, models.ErrNotFound
}

// QueueMessage enqueues an ad-hoc SMS from the operator console.
func (s *SMSService) QueueMessage(ctx context.Context, req *models.QueueSMSRequest) (*models.OutboxMessage, error) {
	return s.outbox.Enqueue(ctx, &models.OutboxMessage{
		Recipient: utils.NormalizePhone(req.Number),
		Body:      req.Msg,
	})
}

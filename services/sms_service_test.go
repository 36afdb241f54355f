package services

import (
	"context"
	"disasterlink-backend/models"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// SMSServiceTestSuite defines a test suite for the inbound SMS command handler
type SMSServiceTestSuite struct {
	suite.Suite
	ctx           context.Context
	mockVictims   *MockVictimRepository
	mockIncidents *MockIncidentRepository
	mockShelters  *MockShelterRepository
	mockOutbox    *MockOutboxRepository
	mockNotifier  *MockDispatcher
	smsService    *SMSService
}

func (suite *SMSServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockVictims = &MockVictimRepository{}
	suite.mockIncidents = &MockIncidentRepository{}
	suite.mockShelters = &MockShelterRepository{}
	suite.mockOutbox = &MockOutboxRepository{}
	suite.mockNotifier = &MockDispatcher{}

	log := newQuietLogger()
	victimService := NewVictimService(suite.mockVictims, log)
	shelterService := NewShelterService(suite.mockShelters, suite.mockVictims, log)

	suite.smsService = NewSMSService(victimService, suite.mockIncidents, shelterService, suite.mockOutbox, suite.mockNotifier, log)
}

func (suite *SMSServiceTestSuite) TearDownTest() {
	suite.mockVictims.AssertExpectations(suite.T())
	suite.mockIncidents.AssertExpectations(suite.T())
	suite.mockShelters.AssertExpectations(suite.T())
	suite.mockOutbox.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *SMSServiceTestSuite) knownVictim(phone string) *models.Victim {
	victim := &models.Victim{
		PhoneNumber: phone,
		Name:        "Asha",
		Status:      models.VictimStatusActive,
		IsActive:    true,
		Version:     1,
	}
	suite.mockVictims.On("GetVictim", mock.Anything, phone).Return(victim, nil)
	return victim
}

func (suite *SMSServiceTestSuite) expectReply(phone string) {
	suite.mockNotifier.On("Send", mock.Anything, []string{phone}, mock.AnythingOfType("string")).Return(nil).Once()
}

func (suite *SMSServiceTestSuite) TestHandleInboundLocation() {
	suite.knownVictim("911111111")
	suite.expectReply("911111111")
	suite.mockVictims.On("UpdateVictimFields", mock.Anything, "911111111", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["latitude"] == 19.076 && u["longitude"] == 72.8777
	})).Return(nil).Once()

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "LOC 19.076 72.8777")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Location received")
}

func (suite *SMSServiceTestSuite) TestHandleInboundLocationWithBattery() {
	suite.knownVictim("911111111")
	suite.expectReply("911111111")
	suite.mockVictims.On("UpdateVictimFields", mock.Anything, "911111111", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["battery"] == 78
	})).Return(nil).Once()

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "LOC 19.076 72.8777 78%")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Location received")
}

func (suite *SMSServiceTestSuite) TestHandleInboundLocationUnreadable() {
	suite.knownVictim("911111111")
	suite.expectReply("911111111")

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "LOC near the bridge")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Could not read coordinates")
}

func (suite *SMSServiceTestSuite) TestHandleInboundLocationOutOfRange() {
	suite.knownVictim("911111111")
	suite.expectReply("911111111")

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "LOC 95.0 72.8")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Could not read coordinates")
}

func (suite *SMSServiceTestSuite) TestHandleInboundStatusHelp() {
	suite.knownVictim("911111111")
	suite.expectReply("911111111")
	suite.mockVictims.On("UpdateVictimFields", mock.Anything, "911111111", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == string(models.VictimStatusNeedsHelp)
	})).Return(nil).Once()

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "STATUS HELP")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Needs Help")
}

func (suite *SMSServiceTestSuite) TestHandleInboundStatusOK() {
	suite.knownVictim("911111111")
	suite.expectReply("911111111")
	suite.mockVictims.On("UpdateVictimFields", mock.Anything, "911111111", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == string(models.VictimStatusActive)
	})).Return(nil).Once()

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "status ok")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Glad you are safe")
}

func (suite *SMSServiceTestSuite) TestHandleInboundStatusUnknownValue() {
	suite.knownVictim("911111111")
	suite.expectReply("911111111")

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "STATUS MAYBE")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Usage: STATUS")
}

func (suite *SMSServiceTestSuite) TestHandleInboundReport() {
	victim := suite.knownVictim("911111111")
	victim.Latitude = floatPtr(19.076)
	victim.Longitude = floatPtr(72.8777)
	suite.expectReply("911111111")
	suite.mockIncidents.On("CreateIncident", mock.Anything, mock.MatchedBy(func(inc *models.Incident) bool {
		return inc.Type == models.IncidentTypeFlood &&
			inc.ReportedBy == "911111111" &&
			inc.Description == "water rising fast" &&
			*inc.Latitude == 19.076
	})).Return(&models.Incident{IncidentID: "inc-1"}, nil).Once()

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "REPORT FLOOD water rising fast")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Flood reported")
}

func (suite *SMSServiceTestSuite) TestHandleInboundReportWithoutLocation() {
	suite.knownVictim("911111111")
	suite.expectReply("911111111")

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "REPORT FIRE")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Send LOC")
}

func (suite *SMSServiceTestSuite) TestHandleInboundShelter() {
	victim := suite.knownVictim("911111111")
	victim.Latitude = floatPtr(19.0)
	victim.Longitude = floatPtr(73.0)
	suite.expectReply("911111111")

	near := &models.Shelter{
		ShelterID: "shelter-1",
		Name:      "Community Hall",
		Address:   "12 Main Road",
		Capacity:  100,
		Latitude:  latOffset(19.0, 1.0),
		Longitude: floatPtr(73.0),
		IsActive:  true,
	}
	far := &models.Shelter{
		ShelterID: "shelter-2",
		Name:      "School Gym",
		Address:   "5 Hill Street",
		Capacity:  50,
		Latitude:  latOffset(19.0, 8.0),
		Longitude: floatPtr(73.0),
		IsActive:  true,
	}
	suite.mockShelters.On("GetShelters", mock.Anything).Return([]*models.Shelter{far, near}, nil).Once()

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "SHELTER")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Community Hall")
	assert.Contains(suite.T(), reply, "12 Main Road")
}

func (suite *SMSServiceTestSuite) TestHandleInboundShelterNoneOpen() {
	victim := suite.knownVictim("911111111")
	victim.Latitude = floatPtr(19.0)
	victim.Longitude = floatPtr(73.0)
	suite.expectReply("911111111")
	suite.mockShelters.On("GetShelters", mock.Anything).Return([]*models.Shelter{}, nil).Once()

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "SHELTER")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "No open shelter")
}

func (suite *SMSServiceTestSuite) TestHandleInboundRegister() {
	suite.knownVictim("911111111")
	suite.expectReply("911111111")
	suite.mockVictims.On("UpdateVictimFields", mock.Anything, "911111111", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["name"] == "Asha Patil"
	})).Return(nil).Once()

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "REG Asha Patil")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Registered as Asha Patil")
}

func (suite *SMSServiceTestSuite) TestHandleInboundUnknownCommand() {
	suite.knownVictim("911111111")
	suite.expectReply("911111111")

	reply, err := suite.smsService.HandleInbound(suite.ctx, "911111111", "please send a boat")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), helpText, reply)
}

// First contact from an unknown number registers the victim before the
// command is handled.
func (suite *SMSServiceTestSuite) TestHandleInboundFirstContact() {
	suite.mockVictims.On("GetVictim", mock.Anything, "+919222222222").Return(nil, models.ErrNotFound).Once()
	suite.mockVictims.On("CreateVictim", mock.Anything, mock.MatchedBy(func(v *models.Victim) bool {
		return v.PhoneNumber == "919222222222" && v.Status == models.VictimStatusActive
	})).Return(&models.Victim{
		PhoneNumber: "919222222222",
		Status:      models.VictimStatusActive,
		IsActive:    true,
		Version:     1,
	}, nil).Once()
	suite.expectReply("919222222222")

	reply, err := suite.smsService.HandleInbound(suite.ctx, "+919222222222", "HELLO")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), helpText, reply)
}

func (suite *SMSServiceTestSuite) TestReceiveWebhook() {
	payload := []byte(`{
		"data": {
			"event_type": "message.received",
			"payload": {
				"from": {"phone_number": "911111111", "carrier": "Telnyx"},
				"to": [{"phone_number": "918888888888"}],
				"text": "STATUS CRITICAL"
			}
		}
	}`)

	suite.knownVictim("911111111")
	suite.expectReply("911111111")
	suite.mockVictims.On("UpdateVictimFields", mock.Anything, "911111111", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == string(models.VictimStatusCritical)
	})).Return(nil).Once()

	reply, err := suite.smsService.ReceiveWebhook(suite.ctx, payload)

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), reply, "Critical")
}

func (suite *SMSServiceTestSuite) TestReceiveWebhookMissingFields() {
	payload := []byte(`{"data": {"payload": {"text": "LOC 19 73"}}}`)

	reply, err := suite.smsService.ReceiveWebhook(suite.ctx, payload)

	assert.Empty(suite.T(), reply)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidState)
}

func (suite *SMSServiceTestSuite) TestNextOutbound() {
	queued := &models.OutboxMessage{
		MessageID: "msg-1",
		Recipient: "911111111",
		Body:      "HELP IS COMING",
		Status:    models.OutboxStatusQueued,
		Version:   1,
	}

	suite.mockOutbox.On("NextQueued", mock.Anything).Return(queued, nil).Once()
	suite.mockOutbox.On("MarkSent", mock.Anything, "msg-1", int64(1)).Return(nil).Once()

	msg, err := suite.smsService.NextOutbound(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "msg-1", msg.MessageID)
	assert.Equal(suite.T(), models.OutboxStatusSent, msg.Status)
}

// A message claimed by a concurrent poller is skipped and the next one is
// tried.
func (suite *SMSServiceTestSuite) TestNextOutboundClaimRace() {
	contested := &models.OutboxMessage{MessageID: "msg-1", Status: models.OutboxStatusQueued, Version: 1}
	clean := &models.OutboxMessage{MessageID: "msg-2", Status: models.OutboxStatusQueued, Version: 1}
	conflict := fmt.Errorf("stale: %w", models.ErrConflict)

	suite.mockOutbox.On("NextQueued", mock.Anything).Return(contested, nil).Once()
	suite.mockOutbox.On("MarkSent", mock.Anything, "msg-1", int64(1)).Return(conflict).Once()
	suite.mockOutbox.On("NextQueued", mock.Anything).Return(clean, nil).Once()
	suite.mockOutbox.On("MarkSent", mock.Anything, "msg-2", int64(1)).Return(nil).Once()

	msg, err := suite.smsService.NextOutbound(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "msg-2", msg.MessageID)
}

func (suite *SMSServiceTestSuite) TestNextOutboundDrained() {
	suite.mockOutbox.On("NextQueued", mock.Anything).Return(nil, models.ErrNotFound).Once()

	msg, err := suite.smsService.NextOutbound(suite.ctx)

	assert.Nil(suite.T(), msg)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

func (suite *SMSServiceTestSuite) TestQueueMessage() {
	suite.mockOutbox.On("Enqueue", mock.Anything, mock.MatchedBy(func(msg *models.OutboxMessage) bool {
		return msg.Recipient == "919333333333" && msg.Body == "Evacuate the riverbank"
	})).Return(&models.OutboxMessage{MessageID: "msg-9"}, nil).Once()

	msg, err := suite.smsService.QueueMessage(suite.ctx, &models.QueueSMSRequest{
		Number: "+919333333333",
		Msg:    "Evacuate the riverbank",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "msg-9", msg.MessageID)
}

func TestSMSServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SMSServiceTestSuite))
}

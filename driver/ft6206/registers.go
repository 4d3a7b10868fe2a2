package ft6206

// Address is the fixed I2C address of the controller.
const Address = 0x38

const (
	regDEV_MODE            = 0x00
	regGEST_ID             = 0x01
	regTD_STATUS           = 0x02
	regP1_XH               = 0x03
	regP1_XL               = 0x04
	regP1_YH               = 0x05
	regP1_YL               = 0x06
	regP1_WEIGHT           = 0x07
	regP1_MISC             = 0x08
	regP2_XH               = 0x09
	regTH_GROUP            = 0x80
	regTH_DIFF             = 0x85
	regCTRL                = 0x86
	regTIMEENTERMONITOR    = 0x87
	regPERIODACTIVE        = 0x88
	regPERIODMONITOR       = 0x89
	regRADIAN_VALUE        = 0x91
	regOFFSET_LEFT_RIGHT   = 0x92
	regOFFSET_UP_DOWN      = 0x93
	regDISTANCE_LEFT_RIGHT = 0x94
	regDISTANCE_UP_DOWN    = 0x95
	regDISTANCE_ZOOM       = 0x96
	regLIB_VERSION_H       = 0xa1
	regLIB_VERSION_L       = 0xa2
	regCIPHER              = 0xa3
	regG_MODE              = 0xa4
	regPWR_MODE            = 0xa5
	regFIRMID              = 0xa6
	regFOCALTECH_ID        = 0xa8
	regRELEASE_CODE_ID     = 0xaf
	regSTATE               = 0xbc

	// Expected identification values.
	chipID      = 0x06
	panelID     = 0x11
	releaseCode = 0x01
)

const (
	// FrameSize is the length of a full register snapshot, starting
	// at DEV_MODE.
	FrameSize = 16
	// MaxPoints is the number of touch slots tracked by the controller.
	MaxPoints = 2
	// DefaultThreshold is the detection threshold written by Configure.
	DefaultThreshold = 128

	// Each slot record is XH, XL, YH, YL, WEIGHT, MISC.
	slotSize = regP2_XH - regP1_XH
)

// Interrupt modes of the G_MODE register.
const (
	InterruptPolling = 0
	InterruptTrigger = 1
)

// slotReg returns the first register of slot n.
func slotReg(n int) uint8 {
	return uint8(regP1_XH + n*slotSize)
}

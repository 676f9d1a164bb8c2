package paymentgateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/TranHoa21/Mufilika/config"
	"github.com/TranHoa21/Mufilika/pkg/errs"
	"github.com/TranHoa21/Mufilika/pkg/utils"
)

const (
	secureHashParam     = "vnp_SecureHash"
	secureHashTypeParam = "vnp_SecureHashType"

	// ResponseCodeSuccess is the gateway code for a completed payment.
	ResponseCodeSuccess = "00"
)

type Client struct {
	tmnCode    string
	hashSecret []byte
	paymentURL string
	returnURL  string
}

func CreateVNPayClient(config *config.Config) *Client {
	return &Client{
		tmnCode:    config.VNPayConfig.TmnCode,
		hashSecret: []byte(config.VNPayConfig.HashSecret),
		paymentURL: config.VNPayConfig.PaymentURL,
		returnURL:  config.VNPayConfig.ReturnURL,
	}
}

// canonicalize drops empty-valued parameters. The gateway excludes them from
// the signed payload, so they must never reach the MAC on either direction.
func canonicalize(params url.Values) url.Values {
	canonical := url.Values{}
	for key, values := range params {
		for _, value := range values {
			if value == "" {
				continue
			}
			canonical.Add(key, value)
		}
	}
	return canonical
}

// SignParams computes the hex-encoded HMAC-SHA512 signature over the canonical
// form of params. Canonicalization must match what the gateway signed:
// empty values dropped, remaining parameters sorted by key and form-encoded
// (spaces as '+'), which is exactly what url.Values.Encode produces over the
// canonicalized set. Insertion order on the wire is irrelevant.
func (c *Client) SignParams(params url.Values) string {
	mac := hmac.New(sha512.New, c.hashSecret)
	mac.Write([]byte(canonicalize(params).Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback authenticates an inbound callback. The signature fields are
// detached, the remainder is re-signed, and the digests are compared in
// constant time. Any mismatch fails closed.
func (c *Client) VerifyCallback(params url.Values) error {
	supplied := params.Get(secureHashParam)
	if supplied == "" {
		return errs.ErrInvalidSignature
	}

	signable := url.Values{}
	for key, values := range params {
		if key == secureHashParam || key == secureHashTypeParam {
			continue
		}
		for _, value := range values {
			signable.Add(key, value)
		}
	}

	suppliedRaw, err := hex.DecodeString(strings.ToLower(supplied))
	if err != nil {
		return errs.ErrInvalidSignature
	}

	computedRaw, _ := hex.DecodeString(c.SignParams(signable))
	if !hmac.Equal(computedRaw, suppliedRaw) {
		return errs.ErrInvalidSignature
	}

	return nil
}

type PaymentRequest struct {
	BookingID string
	Amount    float64
	OrderInfo string
	IPAddr    string
	CreatedAt time.Time
}

// PaymentURL builds the signed redirect URL the payer is sent to. The gateway
// reports amounts in minor units, so the major-unit amount is multiplied by 100
// here and divided by 100 again on the callback. The emitted query is the
// canonical set, so it never carries a parameter the signature does not cover.
func (c *Client) PaymentURL(req PaymentRequest) string {
	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", c.tmnCode)
	params.Set("vnp_Amount", fmt.Sprintf("%d", int64(req.Amount*100)))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", req.BookingID)
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_ReturnUrl", c.returnURL)
	params.Set("vnp_IpAddr", req.IPAddr)
	params.Set("vnp_CreateDate", utils.FormatVNPayTimestamp(req.CreatedAt))

	query := canonicalize(params)
	signature := c.SignParams(query)

	return fmt.Sprintf("%s?%s&%s=%s", c.paymentURL, query.Encode(), secureHashParam, signature)
}

package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// ErrorResponse is the JSON envelope written for every non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// jsonOK returns an EndpointResult containing an HTTP-200 along with a more
// detailed message (if desired; if none is provided it defaults to a
// generic one) that is not displayed to the caller.
func jsonOK(respObj interface{}, internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "OK"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}
	return jsonResponse(http.StatusOK, respObj, internalMsgFmt, msgArgs...)
}

// jsonBadRequest returns an EndpointResult containing an HTTP-400.
func jsonBadRequest(userMsg string, internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "bad request"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}
	return jsonErr(http.StatusBadRequest, userMsg, internalMsgFmt, msgArgs...)
}

// jsonMethodNotAllowed returns an EndpointResult containing an HTTP-405.
func jsonMethodNotAllowed(req *http.Request, internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "method not allowed"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return jsonErr(http.StatusMethodNotAllowed, userMsg, internalMsgFmt, msgArgs...)
}

// jsonNotFound returns an EndpointResult containing an HTTP-404.
func jsonNotFound(internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "not found"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}
	return jsonErr(http.StatusNotFound, "The requested resource was not found", internalMsgFmt, msgArgs...)
}

// jsonRequestTimeout returns an EndpointResult containing an HTTP-504,
// used when a formula build exceeds its worker timeout.
func jsonRequestTimeout(internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "gateway timeout"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}
	return jsonErr(http.StatusGatewayTimeout, "The request took too long to evaluate", internalMsgFmt, msgArgs...)
}

// jsonInternalServerError returns an EndpointResult containing an HTTP-500.
func jsonInternalServerError(internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "internal server error"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}
	return jsonErr(http.StatusInternalServerError, "An internal server error occurred", internalMsgFmt, msgArgs...)
}

func jsonResponse(status int, respObj interface{}, internalMsg string, v ...interface{}) EndpointResult {
	msg := fmt.Sprintf(internalMsg, v...)
	return EndpointResult{
		isErr:       false,
		status:      status,
		internalMsg: msg,
		resp:        respObj,
	}
}

func jsonErr(status int, userMsg, internalMsg string, v ...interface{}) EndpointResult {
	msg := fmt.Sprintf(internalMsg, v...)
	return EndpointResult{
		isErr:       true,
		status:      status,
		internalMsg: msg,
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

// EndpointResult is the uniform return type of every handler method, so
// that writing the HTTP response and logging it happen in exactly one
// place (writeResponse) regardless of which handler produced the result.
type EndpointResult struct {
	isErr       bool
	status      int
	internalMsg string
	resp        interface{}
	hdrs        [][2]string
}

func (r EndpointResult) writeResponse(w http.ResponseWriter, req *http.Request) {
	if r.status == 0 {
		logHTTPResponse(req, http.StatusInternalServerError, "ERROR", "endpoint result was never populated")
		http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
		return
	}

	var respBytes []byte
	if r.status != http.StatusNoContent {
		var err error
		respBytes, err = json.Marshal(r.resp)
		if err != nil {
			res := jsonErr(http.StatusInternalServerError, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
			res.writeResponse(w, req)
			return
		}
	}

	level := "INFO "
	if r.isErr {
		level = "ERROR"
	}
	logHTTPResponse(req, r.status, level, r.internalMsg)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for i := range r.hdrs {
		w.Header().Set(r.hdrs[i][0], r.hdrs[i][1])
	}
	w.WriteHeader(r.status)
	if r.status != http.StatusNoContent {
		w.Write(respBytes)
	}
}

func logHTTPResponse(req *http.Request, status int, level, msg string) {
	log.Printf("%s %s %s: HTTP-%d %s", level, req.Method, req.URL.Path, status, msg)
}

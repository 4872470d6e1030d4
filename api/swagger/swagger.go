package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Mentora API",
        "description": "Multi-tenant onboarding and referral platform",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and email verification"},
        {"name": "Registration", "description": "Vendor, mentor and student onboarding"},
        {"name": "Admin", "description": "Vendor lifecycle, catalog and platform dashboard"},
        {"name": "Vendor", "description": "Mentor lifecycle and tenant dashboard"},
        {"name": "Mentor", "description": "Referral codes and student roster"},
        {"name": "Student", "description": "Course catalog and enrollment"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/verify-email": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Verify email with OTP",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyEmailRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/resend-otp": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Resend verification OTP",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResendOTPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/register/vendor": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register as a vendor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterVendorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Key already claimed"}
                }
            }
        },
        "/register/mentor": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register as a mentor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterMentorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/register/student": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register with a referral code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Referral code not usable"}
                }
            }
        },
        "/referral-codes/{code}/check": {
            "get": {
                "tags": ["Registration"],
                "summary": "Check a referral code without consuming it",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Usable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid, inactive, expired or exhausted"}
                }
            }
        },
        "/admin/vendors": {
            "get": {
                "tags": ["Admin"],
                "summary": "List vendors",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create a vendor slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateVendorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/vendors/{id}/approve": {
            "put": {
                "tags": ["Admin"],
                "summary": "Approve a vendor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Vendor not found"}
                }
            }
        },
        "/admin/vendors/{id}/reject": {
            "put": {
                "tags": ["Admin"],
                "summary": "Reject a vendor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/ApprovalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/referral-codes": {
            "post": {
                "tags": ["Admin"],
                "summary": "Create a vendor-scoped referral code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateVendorCodeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Vendor not found"}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Platform dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/vendor/mentors": {
            "get": {
                "tags": ["Vendor"],
                "summary": "List mentors",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Vendor"],
                "summary": "Create a mentor slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMentorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentor/referral-codes": {
            "get": {
                "tags": ["Mentor"],
                "summary": "List referral codes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Mentor"],
                "summary": "Create a referral code",
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/CreateReferralCodeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Active code limit reached"}
                }
            }
        },
        "/student/dashboard": {
            "get": {
                "tags": ["Student"],
                "summary": "Student dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/enroll": {
            "post": {
                "tags": ["Student"],
                "summary": "Enroll into a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already enrolled"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "VerifyEmailRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "otp": {"type": "string"}
            },
            "required": ["email", "otp"]
        },
        "ResendOTPRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            },
            "required": ["email"]
        },
        "CreateVendorRequest": {
            "type": "object",
            "properties": {
                "company_name": {"type": "string"},
                "description": {"type": "string"}
            },
            "required": ["company_name"]
        },
        "CreateMentorRequest": {
            "type": "object",
            "properties": {
                "specialization": {"type": "string"},
                "bio": {"type": "string"}
            }
        },
        "RegisterVendorRequest": {
            "type": "object",
            "properties": {
                "vendor_key": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "phone": {"type": "string"},
                "company_name": {"type": "string"},
                "description": {"type": "string"}
            },
            "required": ["email", "password", "full_name"]
        },
        "RegisterMentorRequest": {
            "type": "object",
            "properties": {
                "mentor_key": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "phone": {"type": "string"},
                "specialization": {"type": "string"},
                "bio": {"type": "string"}
            },
            "required": ["email", "password", "full_name"]
        },
        "RegisterStudentRequest": {
            "type": "object",
            "properties": {
                "referral_code": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "phone": {"type": "string"}
            },
            "required": ["referral_code", "email", "password", "full_name"]
        },
        "ApprovalRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"}
            }
        },
        "CreateReferralCodeRequest": {
            "type": "object",
            "properties": {
                "max_usage": {"type": "integer"},
                "expires_at": {"type": "string"}
            }
        },
        "CreateVendorCodeRequest": {
            "type": "object",
            "properties": {
                "vendor_id": {"type": "string"},
                "max_usage": {"type": "integer"},
                "expires_at": {"type": "string"}
            },
            "required": ["vendor_id"]
        },
        "EnrollRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "referral_code": {"type": "string"},
                "payment_method": {"type": "string", "enum": ["card", "upi", "wallet", "netbanking"]},
                "card_number": {"type": "string"},
                "card_holder_name": {"type": "string"},
                "upi_id": {"type": "string"},
                "wallet_name": {"type": "string"},
                "bank_name": {"type": "string"}
            },
            "required": ["course_id", "payment_method"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

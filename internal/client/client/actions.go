package client

// Names of the remote functions.
const (
	ActionGetPosts            = "GetPosts"
	ActionSignIn              = "SignInCognitoUser"
	ActionAddPost             = "AddPost"
	ActionDeletePost          = "DeletePost"
	ActionDeleteUser          = "DeleteCognitoUser"
	ActionStartRegistration   = "StartAddingPendingCognitoUser"
	ActionFinishRegistration  = "FinishAddingPendingCognitoUser"
	ActionStartPasswordReset  = "StartChangingForgottenCognitoUserPassword"
	ActionFinishPasswordReset = "FinishChangingForgottenCognitoUserPassword"
)
